// Copyright 2025 The verihosts Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fingerprint

import "strings"

// vendorProduct maps a lowercased banner product token to its NVD CPE
// (vendor, product) pair. Entries here cover the services the probe library
// in package probe is expected to surface.
var vendorProduct = map[string][2]string{
	"openssh":      {"openbsd", "openssh"},
	"apache":       {"apache", "http_server"},
	"httpd":        {"apache", "http_server"},
	"nginx":        {"nginx", "nginx"},
	"mysql":        {"oracle", "mysql"},
	"mariadb":      {"mariadb", "mariadb"},
	"postgresql":   {"postgresql", "postgresql"},
	"postgres":     {"postgresql", "postgresql"},
	"microsoft-iis": {"microsoft", "internet_information_services"},
	"iis":          {"microsoft", "internet_information_services"},
	"vsftpd":       {"vsftpd_project", "vsftpd"},
	"proftpd":      {"proftpd", "proftpd"},
	"pure-ftpd":    {"pureftpd", "pure-ftpd"},
	"exim":         {"exim", "exim"},
	"postfix":      {"postfix", "postfix"},
	"sendmail":     {"sendmail", "sendmail"},
	"dovecot":      {"dovecot", "dovecot"},
	"courier-imap": {"double_precision", "courier-imap"},
	"samba":        {"samba", "samba"},
	"bind":         {"isc", "bind"},
	"redis":        {"redis", "redis"},
	"memcached":    {"memcached", "memcached"},
	"mongodb":      {"mongodb", "mongodb"},
	"elasticsearch": {"elastic", "elasticsearch"},
	"tomcat":       {"apache", "tomcat"},
	"jetty":        {"eclipse", "jetty"},
	"squid":        {"squid-cache", "squid"},
	"openldap":     {"openldap", "openldap"},
	"ftp":          {"ftp", "ftp"},
	"telnet":       {"telnet", "telnet"},
	"rdp":          {"microsoft", "remote_desktop_services"},
}

// Normalize maps a lowercased product token to its canonical NVD (vendor,
// product) pair. Unknown products map to (name, name) with spaces replaced
// by underscores, matching NVD's own CPE naming convention.
func Normalize(product string) (vendor, normalized string) {
	if pair, ok := vendorProduct[product]; ok {
		return pair[0], pair[1]
	}
	name := strings.ReplaceAll(product, " ", "_")
	return name, name
}

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

package hostprobe

// CommonPorts is the fixed, ascending, de-duplicated port list every scan
// fans its per-host port pool across.
var CommonPorts = []int{
	20, 21, 22, 23, 25, 69, 80, 88, 110, 111, 135, 137, 138, 139, 143, 161, 162,
	199, 389, 443, 445, 465, 515, 587, 631, 636, 873, 993, 995, 1433, 1521, 1900,
	2181, 3000, 3001, 3268, 3269, 3306, 3389, 3702, 4000, 4001, 4200, 5000, 5173,
	5353, 5355, 5432, 5601, 5900, 5985, 5986, 6000, 6379, 7000, 8000, 8008, 8080,
	8086, 8443, 8888, 9000, 9090, 9092, 9100, 9200, 9300, 9443, 10000, 11211,
	16101, 27017,
}

// CriticalPorts marks services downstream reporting should call out, such
// as coloring them distinctly in the terminal table.
var CriticalPorts = map[int]bool{
	21: true, 23: true, 69: true, 135: true, 137: true, 138: true, 139: true,
	389: true, 445: true, 1433: true, 1521: true, 3306: true, 3389: true,
	5432: true, 5900: true, 5985: true, 5986: true, 6379: true, 9200: true,
	11211: true, 27017: true,
}

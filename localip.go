// Copyright 2024 by Ong Yong Xin
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package otah

import "net"

// OutboundIP returns the address of the interface this host would use to
// reach the local network. "Dialing" UDP doesn't send a single packet, so the
// probed address doesn't even have to be reachable; it merely makes the
// kernel pick the outbound interface for us. Hosts without any route fall
// back to loopback; this is best-effort only and never an error.
//
// https://stackoverflow.com/a/28950776
func OutboundIP() string {
	conn, err := net.Dial("udp4", "10.255.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hioloadctl exercises the hioload core from the command line: logger
// throughput runs and fd-to-fd copies through a Buffer.

package main

var version = "dev"

func main() {
	Execute(version)
}

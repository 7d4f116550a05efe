// SPDX-License-Identifier: MPL-2.0

package main

import cmd "dirimport/cmd/dirimport"

func main() {
	cmd.Execute()
}

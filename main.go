// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/spice/cmd/spice"

func main() {
	cmd.Execute()
}

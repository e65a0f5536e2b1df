// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/toolrun/toolrun/cmd/toolrun"

func main() {
	cmd.Execute()
}

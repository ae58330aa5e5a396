// @title committeehub API
// @version 1.0
// @description Read-only committee endpoints. Mutations and live updates use the /ws event channel.
// @BasePath /
package main

import "committeehub/cmd/committeehub/cmd"

func main() {
	cmd.Execute()
}

// Command lilt-demo runs the demo test sets before its own main body.
package main

import (
	"fmt"

	_ "lilt/examples/demo"
	"lilt/pkg/harness"
)

func main() {
	harness.Main(func() {
		fmt.Println("Hello from main")
	})
}

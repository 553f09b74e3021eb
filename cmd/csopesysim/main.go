// Command csopesysim is the simulator's entry point: a Cobra root command
// that wires flags into the interactive shell.
package main

func main() {
	Execute()
}

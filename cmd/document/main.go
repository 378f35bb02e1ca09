// Command document runs the DocLab catalog service and offers a few
// operator commands against the same backend.
package main

func main() {
	Execute()
}

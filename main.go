package main

import "github.com/ciquab/nomutore/cmd/nomutore"

func main() {
	nomutore.Execute()
}

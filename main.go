package main

import "github.com/hashline/hashline/cmd/hashline"

func main() {
	hashline.Execute()
}

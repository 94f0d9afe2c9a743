package main

import "github.com/sandeepkv93/sugardiff/internal/cmd"

func main() {
	cmd.Execute()
}

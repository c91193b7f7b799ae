/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/vicschmitt/blxtract/cmd/blxtract/cmd"

func main() {
	cmd.Execute()
}

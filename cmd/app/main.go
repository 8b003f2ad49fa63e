package main

import "github.com/milluces/milluces-backend/internal/cmd"

func main() {
	cmd.Execute()
}

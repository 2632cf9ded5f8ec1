package main

import (
	"github.com/docchat/docchat-be/cmd"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	cmd.Execute()
}

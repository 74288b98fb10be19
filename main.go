package main

import "github.com/ValentinKolb/redisds/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"fmt"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error())
		return
	}
}

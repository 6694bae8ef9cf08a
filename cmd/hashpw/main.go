// hashpw prints a bcrypt digest for a password, for seeding accounts by
// hand. The password is read with echo disabled; a single argument is
// accepted as a non-interactive fallback.
package main

import (
	"fmt"
	"os"

	"github.com/dmorris/notedly/internal/server/auth"
	"golang.org/x/term"
)

func main() {

	var password []byte

	if len(os.Args) > 1 {
		password = []byte(os.Args[1])
	} else {
		fmt.Println("Enter password")
		p, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		password = p
	}

	hasher := auth.NewPasswordHasher(0)
	digest, err := hasher.Hash(string(password))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Println(digest)
}

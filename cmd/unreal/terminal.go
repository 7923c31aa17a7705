package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// pressAnyKey blocks until a key is pressed. Without a terminal it waits
// for a line instead.
func pressAnyKey() error {
	fmt.Println("\nPress any key to continue...")
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, state)
	var buf [1]byte
	_, err = os.Stdin.Read(buf[:])
	return err
}

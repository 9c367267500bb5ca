package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// questionLoop reads one question per line until EOF or "exit"/"quit" and prints
// each answer. A failed question is reported and the loop goes on.
func questionLoop(in io.Reader, out io.Writer, ask func(string) (string, error)) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		q := strings.TrimSpace(sc.Text())
		switch strings.ToLower(q) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := ask(q)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
	}
}

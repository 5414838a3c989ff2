package logger

import "io"

func SetOutput(w io.Writer) func() {
	previous := output
	output = w

	return func() { output = previous }
}

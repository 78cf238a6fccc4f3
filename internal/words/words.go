// Package words holds the built-in word dictionary and loads custom ones.
package words

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	genErrors "github.com/tamirms/recordgen/errors"
)

// defaultWords is the built-in dictionary.
var defaultWords = []string{
	"Apple",
	"Apricot",
	"Avocado",
	"Banana",
	"Coconut",
	"Fig",
	"Kiwi",
	"Lemon",
	"Lime",
	"Mango",
	"Nectarine",
	"Orange",
	"Papaya",
	"Passion fruit",
	"Pear",
	"Pineapple",
	"Plum",
	"Quince",
	"Grapefruit",
	"Honeydew",
	"Dragon fruit",
	"Cantaloupe",
	"Pomegranate",
	"Persimmon",
	"Tangerine",
}

// Default returns a copy of the built-in dictionary.
func Default() []string {
	return append([]string(nil), defaultWords...)
}

// Load reads one word per line from path. Blank lines are skipped and a
// trailing "\r" is stripped. Words may contain spaces.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := bytes.TrimSuffix(sc.Bytes(), []byte("\r"))
		if len(bytes.TrimSpace(w)) == 0 {
			continue
		}
		out = append(out, string(w))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", genErrors.ErrEmptyWordList, path)
	}
	return out, nil
}

package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/reoring/goprops/codec"
)

func repl(args []string) error {
	reg, st, _, err := structArg(args)
	if err != nil {
		return err
	}
	opt, err := decodeOpt()
	if err != nil {
		return err
	}
	lin := liner.NewLiner()
	defer lin.Close()
	lin.SetMultiLineMode(true)
	lin.SetCompleter(func(line string) (c []string) {
		if !strings.HasPrefix(line, ":type ") {
			return nil
		}
		for _, s := range reg.Structs() {
			if strings.HasPrefix(":type "+s.Name(), line) {
				c = append(c, ":type "+s.Name())
			}
		}
		return c
	})
	for {
		got, err := lin.Prompt(st.Name() + "> ")
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			if err == liner.ErrPromptAborted {
				return nil
			}
			return errors.Wrap(err, "read prompt")
		}
		got = strings.TrimSpace(got)
		if got == "" {
			continue
		}
		lin.AppendHistory(got)
		if name, ok := strings.CutPrefix(got, ":type "); ok {
			next, found := reg.Struct(strings.TrimSpace(name))
			if !found {
				log.Printf("no struct type %s", name)
				continue
			}
			st = next
			continue
		}
		in, err := codec.DecodeJSON(st, []byte(got), opt)
		if err != nil {
			log.Printf("%s", describe(err))
			continue
		}
		out, err := codec.EncodeJSON(in)
		if err != nil {
			log.Printf("%s", describe(err))
			continue
		}
		fmt.Printf("= %s\n\n", out)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/pkg/errors"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/codec"
)

func listTypes(args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	for _, st := range reg.Structs() {
		fmt.Println(st.Name())
		for _, f := range st.Fields() {
			var flags []string
			if !f.Mutable() {
				flags = append(flags, "immutable")
			}
			flags = append(flags, f.Policy().String())
			fmt.Printf("   %-16s %s (%s)\n", f.Name(), f.Type().Name(), strings.Join(flags, ", "))
		}
	}
	return nil
}

// inputs opens the named files, or stdin when there are none.
func inputs(files []string, fn func(name string, r io.Reader) error) error {
	if len(files) == 0 {
		return fn("stdin", os.Stdin)
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "open %s", name)
		}
		err = fn(name, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func check(args []string) error {
	_, st, files, err := structArg(args)
	if err != nil {
		return err
	}
	opt, err := decodeOpt()
	if err != nil {
		return err
	}
	return inputs(files, func(name string, r io.Reader) error {
		in, err := codec.DecodeJSONReader(st, r, opt)
		if err != nil {
			return errors.Wrapf(err, "check %s", name)
		}
		out, err := codec.EncodeJSONIndent(in, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "encode %s", name)
		}
		fmt.Println(string(out))
		return nil
	})
}

func validate(args []string) error {
	_, st, files, err := structArg(args)
	if err != nil {
		return err
	}
	opt, err := decodeOpt()
	if err != nil {
		return err
	}
	failed := 0
	err = inputs(files, func(name string, r io.Reader) error {
		plain, err := codec.DecodePlain(r, opt)
		if err != nil {
			return errors.Wrapf(err, "decode %s", name)
		}
		m, ok := plain.(map[string]any)
		if !ok {
			return errors.Errorf("%s: %s expects a JSON object", name, st.Name())
		}
		iss := st.Validate(m)
		for _, is := range iss {
			fmt.Printf("%s:%s: %s (%s)\n", name, is.Path, is.Message, is.Code)
		}
		if len(iss) > 0 {
			failed++
		} else {
			fmt.Printf("%s: ok\n", name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d document(s) invalid", failed)
	}
	return nil
}

func jsonSchema(args []string) error {
	_, st, _, err := structArg(args)
	if err != nil {
		return err
	}
	sch, err := st.JSONSchema()
	if err != nil {
		return err
	}
	b, err := j.MarshalIndent(sch, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal schema")
	}
	fmt.Println(string(b))
	return nil
}

// describe renders an error for interactive use, one issue per line.
func describe(err error) string {
	iss, ok := goprops.AsIssues(err)
	if !ok {
		return err.Error()
	}
	lines := make([]string, len(iss))
	for i, is := range iss {
		lines[i] = fmt.Sprintf("%s: %s", is.Path, is.Message)
	}
	return strings.Join(lines, "\n")
}

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pkg/errors"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/codec"
	"github.com/reoring/goprops/i18n"
	"github.com/reoring/goprops/schema"
)

const usage = `usage: goprops [-schema=<path>] [-lang=<en|ja>] [-dup=<error|warn|ignore>] <command> [<args>]

Configuration flags:

   -schema     The declaration file (YAML or JSON) that declares the struct types.
   -lang       Language of error messages.
   -dup        How duplicate JSON object keys are treated.
   -maxdepth   Maximum nesting depth of JSON input, 0 for unlimited.

Commands
   types       List the declared struct types and their props
   check       Decode JSON documents as <type> and print their canonical form
   validate    Report every problem of JSON documents as <type>
   jsonschema  Print the JSON Schema of <type>
   repl        Read JSON documents line by line and check them as <type>
   help        Display help message
`

var (
	schemaFlag   = flag.String("schema", "goprops.yaml", "declaration file path")
	langFlag     = flag.String("lang", "en", "message language")
	dupFlag      = flag.String("dup", "error", "duplicate key policy")
	maxDepthFlag = flag.Int("maxdepth", 64, "maximum JSON nesting depth")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	args := flag.Args()
	if len(args) == 0 {
		log.Printf("missing command\n\n")
		fmt.Print(usage)
		return
	}
	i18n.SetLanguage(*langFlag)
	args = args[1:]
	var err error
	switch cmd := flag.Arg(0); cmd {
	case "types":
		err = listTypes(args)
	case "check":
		err = check(args)
	case "validate":
		err = validate(args)
	case "jsonschema":
		err = jsonSchema(args)
	case "repl":
		err = repl(args)
	case "help":
		fmt.Print(usage)
	default:
		log.Printf("unknown command: %s\n\n", cmd)
		fmt.Print(usage)
	}
	if err != nil {
		log.Fatalf("%s error: %+v\n", flag.Arg(0), err)
	}
}

func loadRegistry() (*schema.Registry, error) {
	reg, err := schema.NewRegistry(codec.TimeRFC3339(), codec.Duration())
	if err != nil {
		return nil, err
	}
	if err := reg.LoadFile(*schemaFlag); err != nil {
		return nil, err
	}
	return reg, nil
}

// structArg loads the registry and resolves the type named by the first
// argument.
func structArg(args []string) (*schema.Registry, *goprops.StructType, []string, error) {
	if len(args) == 0 {
		return nil, nil, nil, errors.New("missing type name")
	}
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, nil, err
	}
	st, ok := reg.Struct(args[0])
	if !ok {
		return nil, nil, nil, errors.Errorf("no struct type %s in %s", args[0], *schemaFlag)
	}
	return reg, st, args[1:], nil
}

func decodeOpt() (codec.DecodeOpt, error) {
	opt := codec.DecodeOpt{MaxDepth: *maxDepthFlag}
	switch *dupFlag {
	case "error":
		opt.OnDuplicate = codec.DuplicateError
	case "warn":
		opt.OnDuplicate = codec.DuplicateWarn
		opt.Warn = func(is goprops.Issue) { log.Printf("warning: %s at %s", is.Message, is.Path) }
	case "ignore":
		opt.OnDuplicate = codec.DuplicateIgnore
	default:
		return opt, errors.Errorf("invalid -dup value %q", *dupFlag)
	}
	return opt, nil
}

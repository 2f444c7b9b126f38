// Command chainstore is a thin CLI over the multistream store, grounded on
// cmd/embedius's own subcommand dispatch: a hand-written usage() plus one
// flag.NewFlagSet per subcommand, no CLI framework.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/gops/agent"
	"github.com/google/uuid"

	"github.com/viant/chainstore/blockrecord"
	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/multistream"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "append":
		appendCmd(os.Args[2:])
	case "attach":
		attachCmd(os.Args[2:])
	case "stat":
		statCmd(os.Args[2:])
	case "truncate":
		truncateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: chainstore <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  append    Append a block descriptor primary record")
	fmt.Fprintln(os.Stderr, "  attach    Attach a script-tag annotation to an existing entry")
	fmt.Fprintln(os.Stderr, "  stat      Print entry counts and absence stats")
	fmt.Fprintln(os.Stderr, "  truncate  Truncate to an entry index")
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}

func openStore(prefix string, writable bool) (*multistream.Stream2[blockrecord.BlockDescriptor, blockrecord.ScriptTagHead], error) {
	return multistream.Open2[blockrecord.BlockDescriptor, blockrecord.ScriptTagHead](prefix, writable, multistream.Options{})
}

func appendCmd(args []string) {
	flags := flag.NewFlagSet("append", flag.ExitOnError)
	prefix := flags.String("prefix", "", "store path prefix (required)")
	hashHex := flags.String("hash", "", "32-byte block hash, hex-encoded (required)")
	height := flags.Uint("height", 0, "block height")
	gops := flags.Bool("gops", false, "start a gops debug agent")
	_ = flags.Parse(args)
	if *gops {
		startGops()
	}
	if *prefix == "" || *hashHex == "" {
		flags.Usage()
		os.Exit(2)
	}
	raw, err := hex.DecodeString(*hashHex)
	if err != nil || len(raw) != 32 {
		log.Fatalf("append: --hash must be 32 bytes hex-encoded: %v", err)
	}
	var desc blockrecord.BlockDescriptor
	copy(desc.Hash[:], raw)
	desc.Height = uint32(*height)

	s, err := openStore(*prefix, true)
	if err != nil {
		log.Fatalf("append: open: %v", err)
	}
	defer s.Close()

	runID := uuid.New().String()
	if _, err := s.Append(desc); err != nil {
		log.Fatalf("append: %v", err)
	}
	fmt.Printf("appended entry %d (run %s)\n", s.Len()-1, runID)
}

func attachCmd(args []string) {
	flags := flag.NewFlagSet("attach", flag.ExitOnError)
	prefix := flags.String("prefix", "", "store path prefix (required)")
	index := flags.Int64("index", -1, "entry index (required)")
	kind := flags.Uint("kind", 0, "script-tag kind")
	tagKey := flags.String("tag", "", "annotation key")
	tagVal := flags.String("value", "", "annotation value")
	_ = flags.Parse(args)
	if *prefix == "" || *index < 0 {
		flags.Usage()
		os.Exit(2)
	}
	s, err := openStore(*prefix, true)
	if err != nil {
		log.Fatalf("attach: open: %v", err)
	}
	defer s.Close()

	tags := map[string]string{}
	if *tagKey != "" {
		tags[*tagKey] = *tagVal
	}
	builder, err := blockrecord.NewScriptTagBuilder(uint32(*kind), tags)
	if err != nil {
		log.Fatalf("attach: build: %v", err)
	}
	if _, err := s.AttachVariable1(*index, builder); err != nil {
		log.Fatalf("attach: %v", err)
	}
	fmt.Printf("attached stream 1 on entry %d\n", *index)
}

func statCmd(args []string) {
	flags := flag.NewFlagSet("stat", flag.ExitOnError)
	prefix := flags.String("prefix", "", "store path prefix (required)")
	_ = flags.Parse(args)
	if *prefix == "" {
		flags.Usage()
		os.Exit(2)
	}
	s, err := openStore(*prefix, false)
	if err != nil {
		log.Fatalf("stat: open: %v", err)
	}
	defer s.Close()

	n := s.Len()
	var absent1 int64
	for i := int64(0); i < n; i++ {
		offs, err := s.Offsets(i)
		if err != nil {
			log.Fatalf("stat: offsets(%d): %v", i, err)
		}
		if offs[1] == storage.Invalid {
			absent1++
		}
	}
	fmt.Printf("entries=%d stream1_absent=%d\n", n, absent1)
}

func truncateCmd(args []string) {
	flags := flag.NewFlagSet("truncate", flag.ExitOnError)
	prefix := flags.String("prefix", "", "store path prefix (required)")
	index := flags.Int64("index", -1, "entry index to truncate to (required)")
	_ = flags.Parse(args)
	if *prefix == "" || *index < 0 {
		flags.Usage()
		os.Exit(2)
	}
	s, err := openStore(*prefix, true)
	if err != nil {
		log.Fatalf("truncate: open: %v", err)
	}
	defer s.Close()
	if err := s.Truncate(*index); err != nil {
		log.Fatalf("truncate: %v", err)
	}
	fmt.Printf("truncated to %d entries\n", s.Len())
}

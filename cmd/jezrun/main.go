package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cbegin/jez-go/internal/config"
	"github.com/cbegin/jez-go/internal/lang"
	"github.com/cbegin/jez-go/internal/machine"
	"github.com/cbegin/jez-go/internal/sink"
	"github.com/cbegin/jez-go/internal/telemetry"
)

func main() {
	var (
		programPath = flag.String("file", "", "path to a program source file")
		programText = flag.String("program", "", "inline program source")
		seed        = flag.Int64("seed", 1, "PRNG seed for track sequencing")
		sinkName    = flag.String("sink", "console", "output sink: console|null")
		simulate    = flag.Bool("simulate", false, "run simulate() and print its JSON envelope instead of a live session")
		durationMs  = flag.Float64("duration", 5000, "simulate(): total simulated milliseconds")
		deltaMs     = flag.Float64("delta", 1, "simulate(): milliseconds advanced per step")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	cfg := config.Load()

	reporter, flush := telemetry.Init(cfg.SentryDSN, cfg.Environment, cfg.Release)
	defer flush()

	source, err := resolveProgramInput(*programPath, *programText)
	if err != nil {
		log.Fatal(err)
	}

	if *simulate {
		result, rerr := machine.Simulate(source, *durationMs, *deltaMs, machine.WithSeed(*seed))
		if rerr != nil {
			log.Fatal(rerr)
		}
		out, jerr := json.MarshalIndent(result, "", "  ")
		if jerr != nil {
			log.Fatal(jerr)
		}
		fmt.Println(string(out))
		return
	}

	target, serr := resolveSink(*sinkName)
	if serr != nil {
		log.Fatal(serr)
	}

	directives, perr := lang.Parse(source)
	if perr != nil {
		log.Fatal(perr)
	}
	program, aerr := lang.Assemble(directives)
	if aerr != nil {
		log.Fatal(aerr)
	}

	m, merr := machine.New(program, target, machine.WithSeed(*seed), machine.WithReporter(reporter))
	if merr != nil {
		log.Fatal(merr)
	}

	log.Printf("jezrun: session %s running against sink %q", m.SessionID, target.Name())
	if _, rerr := m.Run(); rerr != nil {
		log.Fatal(rerr)
	}
}

func resolveProgramInput(path, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("either -file or -program must be given")
}

func resolveSink(name string) (sink.Sink, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "console":
		return sink.NewConsole(), nil
	case "null":
		return sink.NewNull(), nil
	default:
		return nil, fmt.Errorf("invalid -sink %q (expected console|null)", name)
	}
}

// Command rmc is the driver for the register-machine compiler: it reads
// a source program, compiles it to this project's bytecode assembly,
// and optionally hands that off to an external assembler/loader.
package main

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"rmc/compiler"
	"rmc/modules"
)

func main() {
	debug := flag.BoolP("debug", "d", false, "Enable verbose trace logging of each compile stage.")
	output := flag.StringP("output", "o", "", "Write the generated assembly to this file instead of stdout.")
	assembler := flag.StringP("assembler", "a", "", "Path to an external assembler to pipe the generated assembly into.")
	run := flag.BoolP("run", "r", false, "Run the assembler's output, post-assembly.")
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *run {
		*assembler = firstNonEmpty(*assembler, os.Getenv("RMC_ASSEMBLER"))
	}

	if len(flag.Args()) != 1 {
		log.Fatal("usage: rmc [flags] <source-file>")
	}

	if err := run0(log, flag.Args()[0], *output, *assembler, *run); err != nil {
		log.WithError(err).Fatal("compilation failed")
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func run0(log *logrus.Logger, path, output, assembler string, runAfter bool) error {
	log.WithField("file", path).Debug("reading source")
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	log.Debug("parsing and lowering to bytecode")
	asm, err := compiler.Compile(string(src), modules.NewRegistry())
	if err != nil {
		return errors.Wrap(err, "compiling")
	}

	if assembler == "" {
		if output == "" {
			os.Stdout.WriteString(asm)
			return nil
		}
		log.WithField("file", output).Debug("writing assembly")
		if err := os.WriteFile(output, []byte(asm), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", output)
		}
		return nil
	}

	if output == "" {
		output = "a.out"
	}

	log.WithFields(logrus.Fields{"assembler": assembler, "output": output}).Debug("invoking assembler")
	cmd := exec.Command(assembler, "-o", output)
	cmd.Stdin = bytes.NewBufferString(asm)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running assembler %s", assembler)
	}

	if !runAfter {
		return nil
	}

	log.WithField("binary", output).Debug("running")
	exe := exec.Command(output)
	exe.Stdout = os.Stdout
	exe.Stderr = os.Stderr
	if err := exe.Run(); err != nil {
		return errors.Wrapf(err, "running %s", output)
	}
	return nil
}

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/muhammadluth/goredact"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	formatAuto = "auto"
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

func newSanitizeCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Sanitize a file or standard input",
		Long: `Sanitize reads a document from a file, or from standard input when no file
(or "-") is given, and writes the sanitized document to standard output.

Formats:
  auto   JSON documents are sanitized field by field, anything else as free text
  json   the input must be JSON; output is indented JSON
  yaml   the input must be YAML; output is YAML
  text   every line is handled like auto, which suits JSON-lines logs

When the input is nested too deeply to sanitize safely, a fixed placeholder
is written instead and the command fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)
			traceID := goredact.NewTraceID()

			s, err := opts.sanitizer()
			if err != nil {
				return err
			}
			input, source, err := readInput(cmd, args)
			if err != nil {
				logger.Error(traceID, module, err)
				return err
			}
			logger.Debug(traceID, module, goredact.MessageTypeIn, "sanitizing input", map[string]any{
				"source": source,
				"format": format,
				"size":   humanize.Bytes(uint64(len(input))),
			})

			out, err := sanitizeInput(s, input, format)
			if err != nil {
				if errors.Is(err, goredact.ErrDepthExceeded) {
					_, _ = io.WriteString(cmd.OutOrStdout(), goredact.UnsafePayload+"\n")
				}
				logger.Error(traceID, module, err)
				return err
			}
			logger.Debug(traceID, module, goredact.MessageTypeOut, "input sanitized", map[string]any{
				"size": humanize.Bytes(uint64(len(out))),
			})
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "input format: auto, json, yaml or text")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return b, "stdin", errors.Wrap(err, "read stdin")
	}
	b, err := os.ReadFile(args[0])
	return b, args[0], errors.Wrapf(err, "read %s", args[0])
}

func sanitizeInput(s *goredact.Sanitizer, input []byte, format string) ([]byte, error) {
	switch format {
	case formatAuto:
		out, err := s.RedactText(string(input))
		if err != nil {
			return nil, err
		}
		return withNewline([]byte(out)), nil
	case formatText:
		return sanitizeLines(s, input)
	case formatJSON:
		v, err := goredact.ParseJSON(string(input), s.MaxDepth())
		if errors.Is(err, goredact.ErrDepthExceeded) {
			return nil, err
		}
		if err != nil {
			return nil, errors.Wrap(err, "input is not valid JSON")
		}
		clean, err := s.Sanitize(v)
		if err != nil {
			return nil, err
		}
		compact, err := goredact.EncodeJSON(clean)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, compact, "", "  "); err != nil {
			return nil, errors.Wrap(err, "indent json")
		}
		return withNewline(buf.Bytes()), nil
	case formatYAML:
		v, err := goredact.ParseYAML(input, s.MaxDepth())
		if err != nil {
			return nil, err
		}
		clean, err := s.Sanitize(v)
		if err != nil {
			return nil, err
		}
		return goredact.EncodeYAML(clean)
	}
	return nil, errors.Errorf("unknown format %q", format)
}

func sanitizeLines(s *goredact.Sanitizer, input []byte) ([]byte, error) {
	var buf bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		out, err := s.RedactText(scanner.Text())
		if err != nil {
			return nil, err
		}
		buf.WriteString(out)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan input")
	}
	return buf.Bytes(), nil
}

func withNewline(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}

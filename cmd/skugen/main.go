package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/noah-isme/tcm-pricing/internal/sku"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "skugen:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "skugen",
		Usage: "generate and check medicine catalog codes",
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "print the code for one medicine",
				ArgsUsage: "CHINESE_NAME [PINYIN]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("generate needs a Chinese name", 2)
					}
					_, err := fmt.Fprintln(c.App.Writer, sku.Generate(c.Args().Get(0), c.Args().Get(1)))
					return err
				},
			},
			{
				Name:  "batch",
				Usage: "assign unique codes to chineseName,pinyinName CSV rows",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input CSV (default stdin)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output CSV (default stdout)"},
					&cli.BoolFlag{Name: "header", Usage: "input has a header row"},
				},
				Action: func(c *cli.Context) error {
					in := c.App.Reader
					if path := c.String("in"); path != "" {
						f, err := os.Open(path)
						if err != nil {
							return err
						}
						defer f.Close()
						in = f
					}
					out := c.App.Writer
					if path := c.String("out"); path != "" {
						f, err := os.Create(path)
						if err != nil {
							return err
						}
						defer f.Close()
						out = f
					}
					return batchCSV(in, out, c.Bool("header"))
				},
			},
			{
				Name:      "convert",
				Usage:     "rewrite a legacy TCM-XX- code",
				ArgsUsage: "OLD_SKU CHINESE_NAME [PINYIN]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.Exit("convert needs OLD_SKU and CHINESE_NAME", 2)
					}
					_, err := fmt.Fprintln(c.App.Writer, sku.ConvertLegacy(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)))
					return err
				},
			},
			{
				Name:      "validate",
				Usage:     "exit non-zero unless every argument is a valid code",
				ArgsUsage: "SKU...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("validate needs at least one code", 2)
					}
					var invalid []string
					for _, code := range c.Args().Slice() {
						ok := sku.Validate(code)
						fmt.Fprintf(c.App.Writer, "%s\t%t\n", code, ok)
						if !ok {
							invalid = append(invalid, code)
						}
					}
					if len(invalid) > 0 {
						return cli.Exit("invalid: "+strings.Join(invalid, ", "), 1)
					}
					return nil
				},
			},
		},
	}
}

func batchCSV(in io.Reader, out io.Writer, header bool) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var entries []sku.Entry
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if header && line == 1 {
			continue
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			return fmt.Errorf("line %d: missing Chinese name", line)
		}
		e := sku.Entry{ChineseName: strings.TrimSpace(rec[0])}
		if len(rec) > 1 {
			e.PinyinName = strings.TrimSpace(rec[1])
		}
		entries = append(entries, e)
	}

	assigned, err := sku.Batch(entries)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.Write([]string{"chineseName", "pinyinName", "sku"}); err != nil {
		return err
	}
	for _, e := range assigned {
		if err := w.Write([]string{e.ChineseName, e.PinyinName, e.SKU}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gonuts/commander"
	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/cubedhuang/toki-pona-data-processing/internal/config"
	"github.com/cubedhuang/toki-pona-data-processing/internal/pipeline"
	"github.com/cubedhuang/toki-pona-data-processing/internal/store"
	"github.com/cubedhuang/toki-pona-data-processing/internal/webapi"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/gate"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/parser"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// ReportFile is written next to the batch outputs.
const ReportFile = "taggedcounts.json"

// runCtx is canceled on interrupt.
var runCtx = context.Background()

// =============================================================================
// Shared setup
// =============================================================================

// rootFS is the host filesystem; paths are converted with fsPath.
var rootFS = osfs.NewFS()

func fsPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return rootFS.FromOSPath(abs)
}

func loadConfig(cmd *commander.Command) (config.Config, error) {
	p := cmd.Flag.Lookup("config").Value.String()
	if p == "" {
		return config.Default(), nil
	}
	name, err := fsPath(p)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(rootFS, name)
}

func newGate(cfg config.Config) (*gate.Gate, error) {
	return gate.New(lexicon.Default(), cfg.Gate)
}

func newProcessor(cfg config.Config) *pipeline.Processor {
	return pipeline.DefaultProcessor(
		parser.WithMaxTrees(cfg.Parser.MaxTrees),
		parser.WithTimeout(cfg.Parser.Timeout),
	)
}

func openStore(cfg config.Store) (store.Storer, error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemStore(), nil
	default:
		return store.NewSQLiteStoreWithDSN(cfg.Path)
	}
}

// applyDB points the store at a SQLite file given on the command line.
func applyDB(cmd *commander.Command, cfg *config.Config) {
	if db := cmd.Flag.Lookup("db").Value.String(); db != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = db
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.String("config", "", "YAML configuration file")
	return fs
}

// =============================================================================
// parse
// =============================================================================

func parseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runParse,
		UsageLine: "parse [options] <text>",
		Short:     "parse text and print its ranked trees and tags",
		Flag:      *newFlagSet("parse"),
	}
	cmd.Flag.Int("top", 3, "number of trees to print per sentence")
	cmd.Flag.Bool("json", false, "print JSON instead of indented trees")
	return cmd
}

func runParse(cmd *commander.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no text given")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := newGate(cfg)
	if err != nil {
		return err
	}
	proc := newProcessor(cfg)
	top := cmd.Flag.Lookup("top").Value.(flag.Getter).Get().(int)
	asJSON := cmd.Flag.Lookup("json").Value.(flag.Getter).Get().(bool)

	text := strings.Join(args, " ")
	for _, card := range g.Sentences(text) {
		res, err := proc.ProcessSentence(runCtx, card.Cleaned)
		if err != nil {
			return err
		}
		if top > 0 && len(res.Ranked) > top {
			res.Ranked = res.Ranked[:top]
		}

		if asJSON {
			out, err := json.Marshal(struct {
				Text    string `json:"text"`
				Outcome string `json:"outcome"`
				Ranked  any    `json:"ranked"`
				Refined any    `json:"refined"`
			}{card.Text, res.Outcome.String(), res.Ranked, res.Refined})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			continue
		}

		fmt.Printf("%s  (gate %.2f, %s)\n", card.Text, card.Score, res.Outcome)
		for i, r := range res.Ranked {
			fmt.Printf("#%d  score %.3f\n%s", i+1, r.Score, tree.Format(r.Tree))
		}
		if len(res.Refined) > 0 {
			tags := make([]string, len(res.Refined))
			for i, w := range res.Refined {
				tags[i] = w.Word.Text + "/" + w.Tag.String()
			}
			fmt.Println(strings.Join(tags, " "))
		}
		fmt.Println()
	}
	return nil
}

// =============================================================================
// batch
// =============================================================================

func batchCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runBatch,
		UsageLine: "batch [options] -in messages.jsonl",
		Short:     "gate, parse, tag and count a JSONL message export",
		Flag:      *newFlagSet("batch"),
	}
	cmd.Flag.String("in", "", "input JSONL of {id, content, authorId} messages")
	cmd.Flag.String("out", "out", "output directory")
	cmd.Flag.String("db", "", "SQLite file for the counts (default from config)")
	cmd.Flag.Int("workers", 0, "worker count (default from config)")
	return cmd
}

func runBatch(cmd *commander.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyDB(cmd, &cfg)
	if n := cmd.Flag.Lookup("workers").Value.(flag.Getter).Get().(int); n > 0 {
		cfg.Pipeline.Workers = n
	}

	in := cmd.Flag.Lookup("in").Value.String()
	if in == "" {
		return errors.New("-in is required")
	}
	inPath, err := fsPath(in)
	if err != nil {
		return err
	}
	outDir, err := fsPath(cmd.Flag.Lookup("out").Value.String())
	if err != nil {
		return err
	}

	g, err := newGate(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := pipeline.NewRunner(g, newProcessor(cfg), st, pipeline.Options{
		Workers:       cfg.Pipeline.Workers,
		ProgressEvery: cfg.Pipeline.ProgressEvery,
		TrendWindow:   cfg.Pipeline.TrendWindow,
	})

	start := time.Now()
	stats, err := runner.Run(runCtx, rootFS, inPath, outDir)
	if err != nil {
		return err
	}
	log.Printf("Done in %s: %d messages, %d sentences, %.1f%% grammatical",
		time.Since(start).Round(time.Millisecond), stats.Messages, stats.Sentences, stats.GrammaticalRate)

	counts, err := st.WordCounts(cfg.Pipeline.ReportMinTotal)
	if err != nil {
		return err
	}
	report, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return err
	}
	if err := hackpadfs.WriteFullFile(rootFS, path.Join(outDir, ReportFile), report, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	summary, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(summary))
	return nil
}

// =============================================================================
// counts
// =============================================================================

func countsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runCounts,
		UsageLine: "counts [options]",
		Short:     "print the word and tag frequency report",
		Flag:      *newFlagSet("counts"),
	}
	cmd.Flag.String("db", "", "SQLite file written by batch")
	cmd.Flag.Int("min", -1, "minimum total per word (default from config)")
	cmd.Flag.String("word", "", "print one word's counts per year instead")
	return cmd
}

func runCounts(cmd *commander.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyDB(cmd, &cfg)
	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var v any
	if word := cmd.Flag.Lookup("word").Value.String(); word != "" {
		if v, err = st.YearCounts(word); err != nil {
			return err
		}
	} else {
		minTotal := cmd.Flag.Lookup("min").Value.(flag.Getter).Get().(int)
		if minTotal < 0 {
			minTotal = cfg.Pipeline.ReportMinTotal
		}
		if v, err = st.WordCounts(minTotal); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// =============================================================================
// serve
// =============================================================================

func serveCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runServe,
		UsageLine: "serve [options]",
		Short:     "serve the JSON API",
		Flag:      *newFlagSet("serve"),
	}
	cmd.Flag.String("addr", "", "listen address (default from config)")
	cmd.Flag.String("db", "", "SQLite file with word counts to serve")
	return cmd
}

func runServe(cmd *commander.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr := cmd.Flag.Lookup("addr").Value.String(); addr != "" {
		cfg.Server.Addr = addr
	}
	g, err := newGate(cfg)
	if err != nil {
		return err
	}

	opts := []webapi.Option{
		webapi.WithTopTrees(cfg.Server.TopTrees),
		webapi.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
	}
	if db := cmd.Flag.Lookup("db").Value.String(); db != "" {
		applyDB(cmd, &cfg)
		st, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, webapi.WithCounts(st))
	}

	api := webapi.New(lexicon.Default(), g, newProcessor(cfg), opts...)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: api.Handler()}

	go func() {
		<-runCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

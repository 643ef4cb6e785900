package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"sync"
	"time"

	"github.com/hack-pad/hackpadfs"

	"github.com/cubedhuang/toki-pona-data-processing/internal/store"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/analysis"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/gate"
)

// Output file names, relative to the output directory.
const (
	TreesFile    = "trees.jsonl"
	FailuresFile = "failures.jsonl"
	TaggedFile   = "tagged.jsonl"
)

// maxLine bounds one input record.
const maxLine = 4 << 20

// Options configures a Runner.
type Options struct {
	Workers       int
	ProgressEvery int // log every n messages; 0 disables progress lines
	TrendWindow   int
}

// Runner processes a whole export. Messages are handled by a pool of
// workers; outputs keep the input order.
type Runner struct {
	gate  *gate.Gate
	proc  *Processor
	store store.Storer
	opts  Options
	now   func() time.Time
}

// NewRunner creates a runner writing counts and failures to st.
func NewRunner(g *gate.Gate, proc *Processor, st store.Storer, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{gate: g, proc: proc, store: st, opts: opts, now: time.Now}
}

type job struct {
	seq int
	msg RawMessage
}

// messageResult is the outcome of one message, ready to be written.
type messageResult struct {
	seq      int
	id       string
	selected bool
	year     int

	parsed   *ParsedMessage
	tagged   *TaggedMessage
	failures *ScoredMessage

	reasons   []string // parallel to failures.Sentences
	sentences []sentenceStat
	err       error
}

type sentenceStat struct {
	words   int
	outcome analysis.Outcome
}

// Run reads raw messages from in and writes the JSONL outputs into outDir,
// both on fsys. It returns the run's statistics.
func (r *Runner) Run(ctx context.Context, fsys hackpadfs.FS, in, outDir string) (analysis.Stats, error) {
	an := analysis.NewAnalyzer(r.opts.TrendWindow)

	src, err := fsys.Open(in)
	if err != nil {
		return an.Stats(), fmt.Errorf("pipeline: failed to open %s: %w", in, err)
	}
	defer src.Close()

	if err := hackpadfs.MkdirAll(fsys, outDir, 0755); err != nil {
		return an.Stats(), fmt.Errorf("pipeline: failed to create %s: %w", outDir, err)
	}
	out, err := openOutputs(fsys, outDir)
	if err != nil {
		return an.Stats(), err
	}
	defer out.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job, r.opts.Workers)
	results := make(chan *messageResult, r.opts.Workers)
	readErr := make(chan error, 1)

	go func() {
		defer close(jobs)
		readErr <- r.read(ctx, src, jobs)
	}()

	var wg sync.WaitGroup
	wg.Add(r.opts.Workers)
	for i := 0; i < r.opts.Workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := r.process(ctx, j)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Resequence by input order
	pending := make(map[int]*messageResult)
	next := 0
	var runErr error
	for res := range results {
		if runErr != nil {
			continue
		}
		pending[res.seq] = res
		for {
			res, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := r.collect(res, out, an); err != nil {
				runErr = err
				cancel()
				break
			}
			if r.opts.ProgressEvery > 0 && next%r.opts.ProgressEvery == 0 {
				log.Printf("Processed %d messages", next)
			}
		}
	}

	if runErr == nil {
		runErr = <-readErr
	}
	if runErr == nil {
		runErr = ctx.Err()
	}
	if err := out.close(); runErr == nil {
		runErr = err
	}
	return an.Stats(), runErr
}

// read decodes one message per non-blank line.
func (r *Runner) read(ctx context.Context, src io.Reader, jobs chan<- job) error {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	seq, line := 0, 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var msg RawMessage
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			log.Printf("Skipping line %d: %v", line, err)
			continue
		}
		select {
		case jobs <- job{seq: seq, msg: msg}:
			seq++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("pipeline: failed to read input: %w", err)
	}
	return nil
}

// process gates one message and parses its selected sentences.
func (r *Runner) process(ctx context.Context, j job) *messageResult {
	res := &messageResult{seq: j.seq, id: j.msg.ID}

	card := r.gate.Scorecard(j.msg.Content)
	selected := r.gate.Select(card, r.gate.Sentences(j.msg.Content))
	if len(selected) == 0 {
		return res
	}
	res.selected = true

	year, err := SnowflakeYear(j.msg.ID)
	if err != nil {
		year = r.now().UTC().Year()
	}
	res.year = year

	parsed := &ParsedMessage{ID: j.msg.ID}
	tagged := &TaggedMessage{ID: j.msg.ID}
	failed := &ScoredMessage{ID: j.msg.ID, Score: card.Score}

	for _, s := range selected {
		sr, err := r.proc.ProcessSentence(ctx, s.Cleaned)
		if err != nil {
			res.err = err
			return res
		}
		res.sentences = append(res.sentences, sentenceStat{words: len(s.Cleaned), outcome: sr.Outcome})

		if sr.Outcome != analysis.Parsed {
			failed.Sentences = append(failed.Sentences, ScoredSentence{Score: s.Score, Words: s.Cleaned})
			res.reasons = append(res.reasons, sr.Outcome.String())
			continue
		}
		best, _ := sr.Best()
		parsed.Sentences = append(parsed.Sentences, best.Tree)
		tagged.Sentences = append(tagged.Sentences, TaggedSentence{Words: sr.Refined})
	}

	if len(parsed.Sentences) > 0 {
		res.parsed = parsed
		res.tagged = tagged
	}
	if len(failed.Sentences) > 0 {
		res.failures = failed
	}
	return res
}

// collect writes one message's outputs. It runs on a single goroutine.
func (r *Runner) collect(res *messageResult, out *outputs, an *analysis.Analyzer) error {
	if res.err != nil {
		return res.err
	}

	an.AddMessage(res.selected)
	for _, s := range res.sentences {
		an.AddSentence(s.words, s.outcome)
	}

	if res.parsed != nil {
		if err := out.trees.encode(res.parsed); err != nil {
			return err
		}
		if err := out.tagged.encode(res.tagged); err != nil {
			return err
		}
		for _, s := range res.tagged.Sentences {
			if err := r.store.AddTagged(res.year, s.Words); err != nil {
				return err
			}
		}
	}

	if res.failures != nil {
		if err := out.failures.encode(res.failures); err != nil {
			return err
		}
		for i, s := range res.failures.Sentences {
			err := r.store.RecordFailure(&store.Failure{
				MessageID: res.id,
				Words:     s.Words,
				Score:     s.Score,
				Reason:    res.reasons[i],
				CreatedAt: r.now().UnixMilli(),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Output files
// =============================================================================

type jsonlWriter struct {
	file hackpadfs.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

func createJSONL(fsys hackpadfs.FS, name string) (*jsonlWriter, error) {
	f, err := hackpadfs.OpenFile(fsys, name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("pipeline: failed to create %s: %w", name, err)
	}
	w, ok := f.(io.Writer)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("pipeline: %s is not writable", name)
	}
	buf := bufio.NewWriter(w)
	return &jsonlWriter{file: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// encode writes v followed by a newline.
func (w *jsonlWriter) encode(v any) error {
	return w.enc.Encode(v)
}

func (w *jsonlWriter) close() error {
	if w == nil || w.file == nil {
		return nil
	}
	err := w.buf.Flush()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	return err
}

type outputs struct {
	trees, failures, tagged *jsonlWriter
}

func openOutputs(fsys hackpadfs.FS, dir string) (*outputs, error) {
	var out outputs
	var err error
	if out.trees, err = createJSONL(fsys, path.Join(dir, TreesFile)); err != nil {
		return nil, err
	}
	if out.failures, err = createJSONL(fsys, path.Join(dir, FailuresFile)); err != nil {
		out.close()
		return nil, err
	}
	if out.tagged, err = createJSONL(fsys, path.Join(dir, TaggedFile)); err != nil {
		out.close()
		return nil, err
	}
	return &out, nil
}

func (o *outputs) close() error {
	return errors.Join(o.trees.close(), o.failures.close(), o.tagged.close())
}

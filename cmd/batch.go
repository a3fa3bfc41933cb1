package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/report"
	"github.com/adalundhe/volcans/core/weights"
)

// =============================================================================
// Batch Job File
// =============================================================================

// jobFile is the YAML document read by the batch command.
type jobFile struct {
	Jobs []job `yaml:"jobs"`
}

// job is one analogue query. Count 0 means the configured default.
type job struct {
	Volcano string            `yaml:"volcano"`
	Count   int               `yaml:"count"`
	Weights map[string]string `yaml:"weights"`
	Apriori []string          `yaml:"apriori"`
}

// readJobFile decodes path, rejecting unknown keys. A criterion repeated
// under weights is a duplicate-weight error.
func readJobFile(path string) (*jobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.KindInvalidInput, "failed to read job file", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, verrors.Wrap(verrors.KindInvalidInput, "failed to parse job file "+path, err)
	}
	if err := checkDuplicateWeights(&root); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f jobFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, verrors.Wrap(verrors.KindInvalidInput, "failed to parse job file "+path, err)
	}
	if len(f.Jobs) == 0 {
		return nil, verrors.Newf(verrors.KindInvalidInput, "job file %s has no jobs", path)
	}
	for i, j := range f.Jobs {
		if j.Volcano == "" {
			return nil, verrors.Newf(verrors.KindInvalidInput, "job %d has no volcano", i+1)
		}
		if j.Count < 0 {
			return nil, verrors.Newf(verrors.KindInvalidInput, "job %d has a negative count", i+1)
		}
	}
	return &f, nil
}

// checkDuplicateWeights walks jobs[*].weights of a parsed job file. The
// node tree keeps repeated mapping keys that decoding would reject.
func checkDuplicateWeights(root *yaml.Node) error {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	jobs := mappingValue(root.Content[0], "jobs")
	if jobs == nil || jobs.Kind != yaml.SequenceNode {
		return nil
	}
	for i, j := range jobs.Content {
		w := mappingValue(j, "weights")
		if w == nil || w.Kind != yaml.MappingNode {
			continue
		}
		seen := make(map[string]bool, len(w.Content)/2)
		for k := 0; k+1 < len(w.Content); k += 2 {
			key := w.Content[k].Value
			if seen[key] {
				return verrors.New(verrors.KindDuplicateWeight,
					"Some criterion weights are duplicated! Please revise your weighting scheme.").
					WithContext("job", fmt.Sprint(i+1)).
					WithContext("criterion", key)
			}
			seen[key] = true
		}
	}
	return nil
}

// mappingValue returns the value node under key, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for k := 0; k+1 < len(n.Content); k += 2 {
		if n.Content[k].Value == key {
			return n.Content[k+1]
		}
	}
	return nil
}

// =============================================================================
// Batch Command
// =============================================================================

var batchCmd = &cobra.Command{
	Use:   "batch <jobs.yaml>",
	Short: "Run several analogue queries against one dataset",
	Long: `Run every job of a YAML job file against a single loaded dataset.
Repeated (volcano, weights) pairs are served from the result cache.

A failing job is reported and the remaining jobs still run; the command
fails if any job failed. A criterion listed twice under one job's weights
rejects the whole file with a duplicate-weight error.

Job file:
  jobs:
    - volcano: Fuego
      count: 5
      weights:
        tectonic_setting: "0.5"
        eruption_style: "1/2"
      apriori: [Agung]
    - volcano: 372070`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := readJobFile(args[0])
	if err != nil {
		return err
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	ds, err := env.openDataset(cmd.Context())
	if err != nil {
		return err
	}
	eng, err := ds.Engine(env.logger)
	if err != nil {
		return err
	}
	cache, err := analogy.NewCache(eng, env.cfg.Analogy.CacheSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := report.Options{
		Verbose:   verbose,
		Precision: env.cfg.Output.Precision,
		Color:     report.ColorEnabled(env.cfg.Output.Color, out),
	}

	failed := 0
	for i, j := range jobs.Jobs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== Job %d/%d: %s ==\n", i+1, len(jobs.Jobs), j.Volcano)
		if err := runJob(out, env, ds.Catalogue, cache, j, opts); err != nil {
			failed++
			env.logger.Error("job failed", "job", i+1, "volcano", j.Volcano, "error", err)
		}
	}

	hits, misses := cache.Stats()
	env.logger.Debug("analogy cache", "hits", hits, "misses", misses, "entries", cache.Len())

	if failed > 0 {
		return verrors.Newf(verrors.KindInvalidInput, "%d of %d jobs failed", failed, len(jobs.Jobs))
	}
	return nil
}

func runJob(w io.Writer, env *environment, cat *catalogue.Catalogue, cache *analogy.Cache, j job, opts report.Options) error {
	partial, err := weights.FromMap(j.Weights)
	if err != nil {
		return err
	}
	scheme, err := weights.Validate(partial)
	if err != nil {
		return err
	}

	count := j.Count
	if count == 0 {
		count = env.cfg.Analogy.Count
	}

	a, err := analyse(cat, cache, catalogue.ParseIdentifier(j.Volcano), scheme, count, env.logger)
	if err != nil {
		return err
	}
	if err := report.WriteTable(w, a.top, opts); err != nil {
		return err
	}
	report.WriteAdvisories(w, a.advisories, opts.Color)
	_, err = writeBetterAnalogues(w, cache.Engine(), a, parseIdentifiers(j.Apriori))
	return err
}

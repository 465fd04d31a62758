package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/9seconds/ipattrib/csvdb"
	"github.com/9seconds/ipattrib/providers"
	"github.com/9seconds/ipattrib/topolib"
	"github.com/spf13/afero"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

// makeDatasets opens all datasets one by one. A dataset which cannot be
// opened is logged and registered as a placeholder which never
// matches: it keeps its place in precedence and is reported in info.
// Trie datasets go first so they win by default.
func makeDatasets(fs afero.Fs, conf *config, log *logger, stats *metrics) ([]topolib.Dataset, []topolib.DatasetInfo) {
	confs := make([]configDataset, len(conf.Datasets))

	copy(confs, conf.Datasets)

	sort.SliceStable(confs, func(i, j int) bool {
		return providers.IsTrieKind(confs[i].Kind) && !providers.IsTrieKind(confs[j].Kind)
	})

	datasets := make([]topolib.Dataset, 0, len(confs))
	infos := make([]topolib.DatasetInfo, 0, len(confs))

	for _, v := range confs {
		dataset, info, err := makeDataset(fs, v)
		if err != nil {
			info.Err = err
			log.LoadError(v.Name, err)
		}

		if dataset != nil && v.CacheSize > 0 {
			cached, err := topolib.NewCachingDataset(dataset, v.CacheSize, v.GetCacheTTL())
			if err != nil {
				log.LoadError(v.Name, fmt.Errorf("cannot create cache: %w", err))
			} else {
				dataset = cached
			}
		}

		if dataset == nil {
			dataset = topolib.NewUnavailableDataset(v.Name)
		}

		log.LoadInfo(info)
		stats.ObserveDataset(info)

		infos = append(infos, info)
		datasets = append(datasets, dataset)
	}

	return datasets, infos
}

func makeDataset(fs afero.Fs, conf configDataset) (topolib.Dataset, topolib.DatasetInfo, error) {
	info := topolib.DatasetInfo{
		Name:     conf.Name,
		Kind:     conf.Kind,
		LoadedAt: time.Now(),
	}

	if conf.Kind != providers.KindCSV {
		trie, err := providers.Open(fs, conf.Kind, conf.Name, conf.Path, conf.GetFamily())
		if err != nil {
			return nil, info, err
		}

		info.Families = trie.Families()
		info.Available = true

		return trie, info, nil
	}

	schema, err := conf.GetSchema()
	if err != nil {
		return nil, info, fmt.Errorf("incorrect schema: %w", err)
	}

	family := conf.GetFamily()
	info.Families = []topolib.Family{family}

	table, stats, err := csvdb.Load(fs, conf.Path, csvdb.Options{
		Name:      conf.Name,
		Family:    family,
		Delimiter: conf.GetDelimiter(),
		Schema:    schema,
	})
	if err != nil {
		return nil, info, fmt.Errorf("%w: %v", providers.ErrDatasetUnavailable, err)
	}

	info.Available = !stats.Missing
	info.Entries = stats.Entries
	info.Skipped = stats.Skipped
	info.Overlaps = stats.Overlaps

	if stats.Missing {
		info.Err = fmt.Errorf("%w: file %s does not exist", providers.ErrDatasetUnavailable, conf.Path)
	}

	return table.AsDataset(), info, nil
}

// envFileFromArgs finds a value of --env-file flag. Environment file
// has to be loaded before flags are parsed because flags can be set
// with environment variables.
func envFileFromArgs(args []string) string {
	for i, v := range args {
		switch {
		case v == "--":
			return defaultEnvFile
		case strings.HasPrefix(v, "--env-file="):
			return strings.TrimPrefix(v, "--env-file=")
		case v == "--env-file" && i+1 < len(args):
			return args[i+1]
		}
	}

	return defaultEnvFile
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/structwsf/internal/config"
	"github.com/geoknoesis/structwsf/internal/logging"
	"github.com/geoknoesis/structwsf/recordstore"
	"github.com/geoknoesis/structwsf/resultset"
	"github.com/geoknoesis/structwsf/resultset/query"
)

// app is the state shared by the commands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	prefixes *resultset.PrefixRegistry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "rsconv",
		Short:         "Convert, query and store structwsf result sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.convertCmd(), a.queryCmd(), a.storeCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	config.LoadEnv()
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	prefixes, err := cfg.Registry()
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.prefixes = cfg, logger, prefixes
	return nil
}

func (a *app) convertCmd() *cobra.Command {
	var from, to, out string
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a compact XML or structured JSON document to another format",
		Long: "Reads the document from file, or standard input when file is omitted or -,\n" +
			"and writes it in the --to format. Warnings are logged and do not fail the run.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.readStore(cmd, args, from)
			if err != nil {
				return err
			}
			format, ok := resultset.ParseFormat(to)
			if !ok {
				return fmt.Errorf("unknown output format %q", to)
			}
			return a.writeStore(ctx, cmd, store, format, out)
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input format (default: from the file extension, else text/xml)")
	cmd.Flags().StringVarP(&to, "to", "t", string(resultset.FormatRDFN3), "output format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: standard output)")
	return cmd
}

func (a *app) queryCmd() *cobra.Command {
	var from, typ string
	var index bool
	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "List the subjects of a document, optionally filtered by type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.readDocument(cmd, args, from)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if index {
				fragments, warnings, err := doc.IndexFragments(ctx, nil)
				if err != nil {
					return err
				}
				a.logWarnings(warnings)
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(fragments)
			}

			subjects := doc.Subjects()
			if typ != "" {
				subjects = doc.SubjectsByType(typ)
			}
			for _, s := range subjects {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.URI(), s.Type(true), s.Label())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input format (default: from the file extension, else text/xml)")
	cmd.Flags().StringVar(&typ, "type", "", "only subjects of this type (CURIE or URI)")
	cmd.Flags().BoolVar(&index, "index", false, "print the index fragments as JSON")
	return cmd
}

func (a *app) storeCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Persist and read records in the record store",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "record store directory (default: store.path from the configuration)")

	open := func() (*recordstore.DB, error) {
		path := dbPath
		if path == "" {
			path = a.cfg.Store.Path
		}
		if path == "" {
			return nil, errors.New("no record store directory: use --db or store.path")
		}
		return recordstore.Open(path, recordstore.WithLogger(a.logger))
	}

	var from string
	put := &cobra.Command{
		Use:   "put [file]",
		Short: "Store the records of a document; existing records are kept",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.readStore(cmd, args, from)
			if err != nil {
				return err
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Put(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d of %d records\n", n, store.Len())
			return nil
		},
	}
	put.Flags().StringVarP(&from, "from", "f", "", "input format (default: from the file extension, else text/xml)")

	var to, dataset string
	get := &cobra.Command{
		Use:   "get [uri]",
		Short: "Print one record, or a whole dataset with --dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (dataset == "") {
				return errors.New("give either a record uri or --dataset")
			}
			format, ok := resultset.ParseFormat(to)
			if !ok {
				return fmt.Errorf("unknown output format %q", to)
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			var store *resultset.Store
			if dataset != "" {
				store, err = db.Dataset(ctx, dataset)
				if err != nil {
					return err
				}
			} else {
				rec, err := db.Get(ctx, args[0])
				if err != nil {
					return err
				}
				store = resultset.NewStoreWithPrefixes(a.prefixes.Clone())
				store.Add(rec)
			}
			return a.writeStore(ctx, cmd, store, format, "")
		},
	}
	get.Flags().StringVarP(&to, "to", "t", string(resultset.FormatXML), "output format")
	get.Flags().StringVar(&dataset, "dataset", "", "print every record of this dataset")

	datasets := &cobra.Command{
		Use:   "datasets",
		Short: "List the stored datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			list, err := db.Datasets(cmd.Context())
			if err != nil {
				return err
			}
			for _, ds := range list {
				fmt.Fprintln(cmd.OutOrStdout(), ds)
			}
			return nil
		},
	}

	cmd.AddCommand(put, get, datasets)
	return cmd
}

// openInput opens the document named by args, or standard input, and
// resolves its format.
func openInput(cmd *cobra.Command, args []string, from string) (io.ReadCloser, resultset.Format, error) {
	path := ""
	if len(args) == 1 && args[0] != "-" {
		path = args[0]
	}
	format, err := inputFormat(from, path)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return io.NopCloser(cmd.InOrStdin()), format, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, format, nil
}

// readStore decodes the document named by args, or standard input.
func (a *app) readStore(cmd *cobra.Command, args []string, from string) (*resultset.Store, error) {
	r, format, err := openInput(cmd, args, from)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	store, warnings, err := resultset.Decode(cmd.Context(), r, format,
		resultset.WithPrefixes(a.prefixes),
		resultset.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.logWarnings(warnings)
	return store, nil
}

// readDocument parses the document named by args for querying. Compact XML
// is parsed as is; structured JSON is decoded and written as compact XML
// first.
func (a *app) readDocument(cmd *cobra.Command, args []string, from string) (*query.Document, error) {
	r, format, err := openInput(cmd, args, from)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if format == resultset.FormatXML {
		return query.ParseWithPrefixes(r, a.prefixes)
	}

	ctx := cmd.Context()
	store, warnings, err := resultset.Decode(ctx, r, format,
		resultset.WithPrefixes(a.prefixes),
		resultset.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.logWarnings(warnings)
	var buf bytes.Buffer
	if _, err := resultset.Encode(ctx, &buf, store, resultset.FormatXML, resultset.WithLogger(a.logger)); err != nil {
		return nil, err
	}
	return query.ParseWithPrefixes(&buf, a.prefixes)
}

func (a *app) writeStore(ctx context.Context, cmd *cobra.Command, store *resultset.Store, format resultset.Format, out string) (err error) {
	w := cmd.OutOrStdout()
	if out != "" {
		f, createErr := os.Create(out)
		if createErr != nil {
			return createErr
		}
		defer closeInto(f, &err)
		w = f
	}
	warnings, err := resultset.Encode(ctx, w, store, format,
		resultset.WithLogger(a.logger),
		resultset.WithTransformer(a.cfg.Transformer(a.logger)),
	)
	a.logWarnings(warnings)
	return err
}

// closeInto closes c and stores its error in *err unless *err is already set.
func closeInto(c io.Closer, err *error) {
	if closeErr := c.Close(); *err == nil {
		*err = closeErr
	}
}

func (a *app) logWarnings(warnings resultset.Warnings) {
	for _, w := range warnings {
		a.logger.Warn(w.Message, "code", string(w.Code), "subject", w.Subject, "predicate", w.Predicate)
	}
}

// inputFormat resolves the --from flag, falling back to the file extension.
func inputFormat(from, path string) (resultset.Format, error) {
	if from != "" {
		format, ok := resultset.ParseFormat(from)
		if !ok || !format.Decodable() {
			return "", fmt.Errorf("cannot read %q documents", from)
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case resultset.FormatJSON.Extension():
		return resultset.FormatJSON, nil
	default:
		return resultset.FormatXML, nil
	}
}

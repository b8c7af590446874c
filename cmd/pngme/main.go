package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pngme/pngme/pngme"
	pngerrors "github.com/pngme/pngme/pngme/errors"
	"github.com/pngme/pngme/pngme/logger"
	"github.com/pngme/pngme/pngme/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	logLevel   = logger.LogLevelError
	verbose    bool
	compress   bool
	compressed bool
	noProgress bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pngme",
		Short: "Hide, read and remove messages in PNG chunks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && logLevel < logger.LogLevelInfo {
				logLevel = logger.LogLevelInfo
			}
			logger.SetLogLevel(logLevel)
		},
	}

	addLogFlags(rootCmd.PersistentFlags())

	// encode command
	encodeCmd := &cobra.Command{
		Use:     "encode <FILE> <CHUNK_TYPE> <MESSAGE> [OUTPUT]",
		Aliases: []string{"e"},
		Short:   "Append a chunk carrying MESSAGE. Writes to OUTPUT, or back to FILE",
		Args:    cobra.RangeArgs(3, 4),
		Run:     runEncode,
	}
	encodeCmd.Flags().BoolVar(&compress, "compress", false, "Store the message zlib-compressed")

	// decode command
	decodeCmd := &cobra.Command{
		Use:     "decode <FILE> <CHUNK_TYPE>",
		Aliases: []string{"d"},
		Short:   "Print the message stored in the first chunk of CHUNK_TYPE",
		Args:    cobra.ExactArgs(2),
		Run:     runDecode,
	}
	decodeCmd.Flags().BoolVar(&compressed, "compressed", false, "The message was stored with --compress")

	// remove command
	removeCmd := &cobra.Command{
		Use:     "remove <FILE> <CHUNK_TYPE>",
		Aliases: []string{"r"},
		Short:   "Remove the first chunk of CHUNK_TYPE",
		Args:    cobra.ExactArgs(2),
		Run:     runRemove,
	}

	// print command
	printCmd := &cobra.Command{
		Use:     "print <FILE>...",
		Aliases: []string{"p"},
		Short:   "List the chunks of one or more files",
		Args:    cobra.MinimumNArgs(1),
		Run:     runPrint,
	}
	printCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar when printing several files")

	rootCmd.AddCommand(encodeCmd, decodeCmd, removeCmd, printCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLogFlags(flags *pflag.FlagSet) {
	flags.Var(&logLevel, "log-level", "Log level: silent, error, warn, info or debug")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level=info")
}

func newEditor() pngme.Editor {
	return pngme.NewEditor(storage.NewLocalStorage())
}

const (
	exitFailure     = 1
	exitBadImage    = 2
	exitNoSuchChunk = 3
)

// exitCode picks the process status for err: image data problems and a
// missing chunk get their own statuses so scripts can tell them from I/O errors.
func exitCode(err error) int {
	switch pngerrors.GetErrorCode(err) {
	case "":
		return exitFailure
	case pngerrors.ErrChunkNotFound.Code:
		return exitNoSuchChunk
	default:
		return exitBadImage
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode(err))
}

// useProgressBar reports whether print should draw a bar. Info and debug
// logging would tear through it, so it is only drawn below info.
func useProgressBar(files int) bool {
	return !noProgress && files > 1 && logger.GetLogLevel() < logger.LogLevelInfo
}

func runEncode(cmd *cobra.Command, args []string) {
	opts := pngme.EncodeOptions{
		ChunkType: args[1],
		Message:   args[2],
		Compress:  compress,
	}
	if len(args) > 3 {
		opts.Output = args[3]
	}

	if err := newEditor().Encode(context.Background(), args[0], opts); err != nil {
		fail(err)
	}
}

func runDecode(cmd *cobra.Command, args []string) {
	message, found, err := newEditor().Decode(context.Background(), args[0], args[1], pngme.DecodeOptions{Compressed: compressed})
	if err != nil {
		fail(err)
	}

	if !found {
		fmt.Println("No secret message")
		return
	}
	fmt.Printf("Secret Message: %s\n", message)
}

func runRemove(cmd *cobra.Command, args []string) {
	if err := newEditor().Remove(context.Background(), args[0], args[1]); err != nil {
		fail(err)
	}
}

func runPrint(cmd *cobra.Command, args []string) {
	showProgress := useProgressBar(len(args))

	var progressCallback pngme.ProgressCallback
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions64(int64(len(args)),
			progressbar.OptionSetDescription("Inspecting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		progressCallback = func(current, total int64) {
			bar.Set64(current)
		}
	}

	reports, err := newEditor().InspectAll(context.Background(), args, progressCallback)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		fail(err)
	}

	for i, report := range reports {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%s, %d bytes, %d chunks)\n",
			report.Path, report.Digest, report.Size, len(report.Png.Chunks()))
		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Print(report.Png)
	}
}

package fetcher

import (
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// progress wraps reader to display a progress bar on w when w is a terminal.
// Returns the wrapped reader and a function to finalize the progress display.
// An unknown (negative) size renders a bar without a total.
func progress(w io.Writer, reader io.Reader, size int64) (io.Reader, func()) {
	if !isTerminal(w) {
		return reader, func() {}
	}

	bar := pb.
		New64(max(size, 0)).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`{{counters . }} {{bar . "[" "=" ">" " " "]" }} {{percent . }} {{speed . }}`,
				),
			),
		).
		SetWriter(w).
		Set(pb.Bytes, true).
		SetRefreshRate(time.Second / 10).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok || file == nil {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/yourusername/page-forge/internal/jobs"
	"github.com/yourusername/page-forge/internal/pdf"
)

// pollStatus は interval ごとにキューを回収して表示し、終端メッセージを返します。
// interrupt を受け取ると一度だけ cancel を呼びます。
func pollStatus(queue *jobs.Queue, done <-chan struct{}, interval time.Duration, interrupt <-chan os.Signal, cancel func(), show func(pdf.StatusMessage)) pdf.StatusMessage {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	requested := false
	for {
		select {
		case <-interrupt:
			if !requested {
				requested = true
				cancel()
			}
			continue
		case <-ticker.C:
		}

		exited := isClosed(done)
		for _, msg := range queue.Drain() {
			show(msg)
			if msg.Terminal() {
				return msg
			}
		}
		if exited {
			msg := pdf.StatusMessage{
				Kind:    pdf.KindFailed,
				Text:    "The operation ended without reporting a result.",
				IsError: true,
			}
			show(msg)
			return msg
		}
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

type printer struct {
	w        io.Writer
	progress bool
	ok       *color.Color
	bad      *color.Color
	faint    *color.Color
}

func newPrinter(w io.Writer, progress bool) *printer {
	return &printer{
		w:        w,
		progress: progress,
		ok:       color.New(color.FgGreen),
		bad:      color.New(color.FgRed),
		faint:    color.New(color.Faint),
	}
}

func (p *printer) print(msg pdf.StatusMessage) {
	switch {
	case msg.Kind == pdf.KindProgress:
		if p.progress {
			p.faint.Fprintf(p.w, "[%s] %d%%\n", msg.Stage, msg.Percent)
		}
	case msg.IsError:
		p.bad.Fprintln(p.w, msg.Text)
	case msg.Kind == pdf.KindFinished:
		p.ok.Fprintln(p.w, msg.Text)
	default:
		fmt.Fprintln(p.w, msg.Text)
	}
}

func (p *printer) notice(text string) {
	p.faint.Fprintln(p.w, text)
}

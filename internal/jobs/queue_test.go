package jobs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/page-forge/internal/pdf"
)

func TestQueueDrainsInOrder(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Drain())

	q.Report(pdf.StatusMessage{Kind: pdf.KindInfo, Text: "a"})
	q.Report(pdf.StatusMessage{Kind: pdf.KindWarning, Text: "b"})
	q.Report(pdf.StatusMessage{Kind: pdf.KindFinished, Text: "c"})
	assert.Equal(t, 3, q.Len())

	msgs := q.Drain()
	require.Len(t, msgs, 3)
	assert.Equal(t, "a", msgs[0].Text)
	assert.Equal(t, "b", msgs[1].Text)
	assert.Equal(t, "c", msgs[2].Text)
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestQueueConcurrentProducerAndConsumer(t *testing.T) {
	q := NewQueue()
	const total = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Report(pdf.StatusMessage{Kind: pdf.KindProgress, Percent: i})
		}
	}()

	var got []pdf.StatusMessage
	for len(got) < total {
		got = append(got, q.Drain()...)
	}
	wg.Wait()

	for i, msg := range got {
		require.Equal(t, i, msg.Percent)
	}
}

func TestCancelFlag(t *testing.T) {
	var f CancelFlag
	assert.False(t, f.Cancelled())
	f.Set()
	f.Set()
	assert.True(t, f.Cancelled())
}

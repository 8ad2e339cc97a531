// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdioSend(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioServerTransport(strings.NewReader(""), &out)

	err := tr.Send(context.Background(), []byte(`{"jsonrpc":"2.0","id":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","id":1}`+"\n", out.String())
}

func TestStdioSendAfterClose(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioServerTransport(strings.NewReader(""), &out)
	require.NoError(t, tr.Close())

	err := tr.Send(context.Background(), []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestStdioReceiveFraming(t *testing.T) {
	input := "{\"a\":1}\n\n{\"b\":2}\r\n"
	tr := NewStdioServerTransport(strings.NewReader(input), io.Discard)

	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(msg))

	// Empty line skipped, trailing \r\n trimmed.
	msg, err = tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(msg))

	_, err = tr.Receive(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestStdioReceiveContextCancelled(t *testing.T) {
	// A reader that never produces data.
	r, w := io.Pipe()
	defer w.Close()
	tr := NewStdioServerTransport(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStdioReceiveAfterClose(t *testing.T) {
	tr := NewStdioServerTransport(strings.NewReader("{\"a\":1}\n"), io.Discard)
	require.NoError(t, tr.Close())

	_, err := tr.Receive(context.Background())
	assert.Error(t, err)
}

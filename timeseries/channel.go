package timeseries

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ChannelLogOptions controls how a channel log is cut into series.
type ChannelLogOptions struct {
	MaxLen  int                // Split runs longer than this (0: no limit)
	MinLen  int                // Drop series shorter than this
	Channel string             // Keep only this channel id (empty: all)
	Logger  logrus.FieldLogger // Receives skipped-line warnings (optional)
}

// logRecord is one line of a channel log. Channel ids may be numbers or
// strings.
type logRecord struct {
	Channel   json.RawMessage `json:"channel"`
	F         *float64        `json:"f"`
	Timestamp *float64        `json:"ts,omitempty"` // unix seconds
}

// LoadChannelLogFile loads a channel log from a file.
func LoadChannelLogFile(filename string, opts *ChannelLogOptions) ([]*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadChannelLog(file, opts)
}

// LoadChannelLog reads a JSON-lines log of {"channel": id, "f": value}
// records. Every run of consecutive records with the same channel becomes a
// series; runs longer than MaxLen are split. Blank, malformed and incomplete
// lines are skipped.
func LoadChannelLog(r io.Reader, opts *ChannelLogOptions) ([]*Series, error) {
	if opts == nil {
		opts = &ChannelLogOptions{}
	}

	var out []*Series
	var cur *Series
	flush := func() {
		if cur != nil && cur.Len() > 0 && cur.Len() >= opts.MinLen {
			if !cur.HasTimestamps() {
				cur.Timestamps = nil
			}
			cur.Name = fmt.Sprintf("series%d", len(out))
			out = append(out, cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || bytes.Equal(text, []byte("null")) {
			continue
		}

		var rec logRecord
		if err := json.Unmarshal(text, &rec); err != nil || rec.F == nil || isNull(rec.Channel) {
			if opts.Logger != nil {
				opts.Logger.WithField("line", line).Warn("skipping malformed log record")
			}
			continue
		}

		ch := channelID(rec.Channel)
		if cur != nil && (cur.Channel != ch || (opts.MaxLen > 0 && cur.Len() == opts.MaxLen)) {
			flush()
		}
		if opts.Channel != "" && ch != opts.Channel {
			continue
		}
		if cur == nil {
			cur = &Series{Channel: ch}
		}
		cur.Values = append(cur.Values, *rec.F)
		if rec.Timestamp != nil {
			cur.Timestamps = append(cur.Timestamps, unixTime(*rec.Timestamp))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// channelID normalises a raw channel value: strings lose their quotes and
// numbers keep their JSON text.
func channelID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

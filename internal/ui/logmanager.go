package ui

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap/zapcore"
)

const DefaultMaxLogMessages = 100

// LogUIManager keeps recent log lines and pages through them in the status
// bar.
type LogUIManager struct {
	mu              sync.Mutex
	logMessages     []string
	currentLogIndex int
	maxLogMessages  int

	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button
}

func NewLogUIManager(maxMessages int) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	return &LogUIManager{
		logMessages:     make([]string, 0, maxMessages),
		currentLogIndex: -1,
		maxLogMessages:  maxMessages,
	}
}

// Attach connects the widgets. Messages logged earlier are kept.
func (lm *LogUIManager) Attach(logLabel *widget.Label, upBtn, downBtn *widget.Button) {
	lm.mu.Lock()
	lm.statusLogLabel = logLabel
	lm.statusLogUpBtn = upBtn
	lm.statusLogDownBtn = downBtn
	lm.mu.Unlock()
	lm.UpdateLogDisplay()
}

func (lm *LogUIManager) AddLogMessage(message string) {
	lm.mu.Lock()
	lm.logMessages = append(lm.logMessages, message)
	if len(lm.logMessages) > lm.maxLogMessages {
		lm.logMessages = lm.logMessages[len(lm.logMessages)-lm.maxLogMessages:]
	}
	lm.currentLogIndex = len(lm.logMessages) - 1
	lm.mu.Unlock()
	lm.UpdateLogDisplay()
}

// Messages returns a copy of the kept lines, oldest first.
func (lm *LogUIManager) Messages() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return append([]string(nil), lm.logMessages...)
}

func (lm *LogUIManager) UpdateLogDisplay() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.statusLogLabel == nil || lm.statusLogUpBtn == nil || lm.statusLogDownBtn == nil {
		return
	}
	if len(lm.logMessages) == 0 {
		lm.statusLogLabel.SetText("")
		lm.statusLogUpBtn.Disable()
		lm.statusLogDownBtn.Disable()
		return
	}

	if lm.currentLogIndex < 0 {
		lm.currentLogIndex = 0
	} else if lm.currentLogIndex >= len(lm.logMessages) {
		lm.currentLogIndex = len(lm.logMessages) - 1
	}

	lm.statusLogLabel.SetText(fmt.Sprintf("[%d/%d] %s", lm.currentLogIndex+1, len(lm.logMessages), lm.logMessages[lm.currentLogIndex]))
	if lm.currentLogIndex <= 0 {
		lm.statusLogUpBtn.Disable()
	} else {
		lm.statusLogUpBtn.Enable()
	}
	if lm.currentLogIndex >= len(lm.logMessages)-1 {
		lm.statusLogDownBtn.Disable()
	} else {
		lm.statusLogDownBtn.Enable()
	}
}

func (lm *LogUIManager) ShowPreviousLogMessage() {
	lm.mu.Lock()
	if len(lm.logMessages) == 0 || lm.currentLogIndex <= 0 {
		lm.mu.Unlock()
		return
	}
	lm.currentLogIndex--
	lm.mu.Unlock()
	lm.UpdateLogDisplay()
}

func (lm *LogUIManager) ShowNextLogMessage() {
	lm.mu.Lock()
	if len(lm.logMessages) == 0 || lm.currentLogIndex >= len(lm.logMessages)-1 {
		lm.mu.Unlock()
		return
	}
	lm.currentLogIndex++
	lm.mu.Unlock()
	lm.UpdateLogDisplay()
}

// statusCore is a zap core that feeds formatted entries to a sink, the log
// manager in the running application.
type statusCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	sink func(string)
}

func newStatusCore(level zapcore.LevelEnabler, sink func(string)) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "L",
		MessageKey:       "M",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
	return &statusCore{LevelEnabler: level, enc: enc, sink: sink}
}

func (c *statusCore) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return &statusCore{LevelEnabler: c.LevelEnabler, enc: enc, sink: c.sink}
}

func (c *statusCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *statusCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	c.sink(strings.TrimSpace(buf.String()))
	buf.Free()
	return nil
}

func (c *statusCore) Sync() error { return nil }

// postToUI delivers a log line on the UI goroutine.
func (lm *LogUIManager) postToUI(msg string) {
	fyne.Do(func() { lm.AddLogMessage(msg) })
}

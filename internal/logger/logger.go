package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultFolder        = "./logs"
	rotationCheckPeriod  = 10 * time.Second
	retentionCheckPeriod = 24 * time.Hour
)

// LoggerService redirects the standard logger to size-rotated files and
// archives files older than the retention window.
type LoggerService struct {
	Config        map[string]interface{}
	file          *os.File
	mu            sync.Mutex
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	currentLog    string
	maxFileBytes  int64
	retentionDays int
	folderPath    string
	echo          bool
}

// configInt reads an integer option that YAML may have decoded as int or float64.
func configInt(config map[string]interface{}, key string) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func NewLoggerService(config map[string]interface{}) *LoggerService {
	folder, _ := config["folder_path"].(string)
	if folder == "" {
		folder = defaultFolder
	}
	echo, _ := config["echo_stdout"].(bool)
	return &LoggerService{
		Config:        config,
		stopCh:        make(chan struct{}),
		maxFileBytes:  int64(configInt(config, "max_file_mb")) * 1024 * 1024,
		retentionDays: configInt(config, "retention_days"),
		folderPath:    folder,
		echo:          echo,
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		return fmt.Errorf("create log folder %s: %w", l.folderPath, err)
	}
	if err := l.openLocked(); err != nil {
		return err
	}
	log.Println("[LoggerService] Started, writing to", l.currentLog)

	l.wg.Add(1)
	go l.backgroundWorker()
	return nil
}

func (l *LoggerService) Stop() error {
	l.stopOnce.Do(func() { close(l.stopCh) })
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	log.Println("[LoggerService] Stopping")
	log.SetOutput(os.Stderr)
	err := l.file.Close()
	l.file = nil
	return err
}

// CurrentFile returns the path of the file being written.
func (l *LoggerService) CurrentFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLog
}

func (l *LoggerService) openLocked() error {
	name := filepath.Join(l.folderPath, fmt.Sprintf("gwdash_%s.log", time.Now().Format("20060102_150405.000")))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", name, err)
	}
	l.file = file
	l.currentLog = name
	if l.echo {
		log.SetOutput(io.MultiWriter(file, os.Stdout))
	} else {
		log.SetOutput(file)
	}
	return nil
}

func (l *LoggerService) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxFileBytes {
		return nil
	}
	l.file.Close()
	if err := l.openLocked(); err != nil {
		return err
	}
	log.Println("[LoggerService] Rotated log file to", l.currentLog)
	return nil
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	ticker := time.NewTicker(rotationCheckPeriod)
	retentionTicker := time.NewTicker(retentionCheckPeriod)
	defer ticker.Stop()
	defer retentionTicker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if err := l.rotateIfNeeded(); err != nil {
				fmt.Fprintln(os.Stderr, "[LoggerService] rotation failed:", err)
			}
		case <-retentionTicker.C:
			l.archiveOldLogs(time.Now())
		}
	}
}

// archiveOldLogs moves .log files last written before the retention cutoff
// into a dated zip and removes them.
func (l *LoggerService) archiveOldLogs(now time.Time) (archived int) {
	if l.retentionDays <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -l.retentionDays)
	entries, err := os.ReadDir(l.folderPath)
	if err != nil {
		return 0
	}
	var old []string
	current := l.CurrentFile()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		full := filepath.Join(l.folderPath, e.Name())
		info, err := e.Info()
		if err != nil || full == current || info.ModTime().After(cutoff) {
			continue
		}
		old = append(old, full)
	}
	if len(old) == 0 {
		return 0
	}

	zipName := filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", now.Format("20060102_150405")))
	zipFile, err := os.Create(zipName)
	if err != nil {
		return 0
	}
	defer zipFile.Close()
	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, path := range old {
		if err := addToZip(zw, path); err != nil {
			continue
		}
		os.Remove(path)
		archived++
	}
	return archived
}

func addToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func (l *LoggerService) LogAudit(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	log.Printf("[AUDIT] %s", msg)
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}

// Audit writes an audit line through the global logger when one is running,
// or straight to the standard logger otherwise.
func Audit(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if GlobalLogger != nil {
		GlobalLogger.LogAudit(msg)
		return
	}
	log.Printf("[AUDIT] %s", msg)
}

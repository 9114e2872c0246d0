package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/clipboard"
	"murmur/config"
	"murmur/hotkey"
	"murmur/log"
	"murmur/notify"
	"murmur/session"
	"murmur/shutdown"
	"murmur/transcriber"
)

var version = "dev"

// deskSink delivers session outcomes to the desktop: audio cues,
// clipboard, auto-paste and notifications.
type deskSink struct {
	autoPaste bool

	mu           sync.Mutex
	prevClip     string
	restoreTimer *time.Timer
}

func (s *deskSink) RecordingStarted() {
	beep.Start()
	notify.Show("Recording... double-press to stop")
}

func (s *deskSink) RecordingStopped(frames int) {
	beep.Stop()
	log.Debugf("recording delivered %d frames", frames)
}

func (s *deskSink) TranscriptionSuccess(text string) {
	if text == "" {
		return
	}
	log.TranscriptionText(text)

	if s.autoPaste {
		s.mu.Lock()
		s.prevClip, _ = clipboard.Read()
		s.mu.Unlock()
	}

	if err := clipboard.Copy(text); err != nil {
		log.Errorf("clipboard copy failed: %v", err)
		notify.ShowError("Could not copy transcript to clipboard")
		return
	}

	if s.autoPaste {
		time.Sleep(80 * time.Millisecond)
		if err := clipboard.Paste(); err != nil {
			log.Errorf("paste failed: %v", err)
			notify.ShowError("Transcript copied, paste failed")
		} else {
			s.scheduleClipboardRestore()
		}
	}

	notify.Show(preview(text))
}

// scheduleClipboardRestore puts the user's previous clipboard content
// back once the paste has landed.
func (s *deskSink) scheduleClipboardRestore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.prevClip
	if prev == "" {
		return
	}
	if s.restoreTimer != nil {
		s.restoreTimer.Stop()
	}
	s.restoreTimer = time.AfterFunc(600*time.Millisecond, func() {
		clipboard.Copy(prev)
	})
}

func (s *deskSink) TranscriptionFailure(kind, message string) {
	beep.Error()
	log.Debugf("surfacing %s failure to desktop", kind)
	notify.ShowError("Transcription failed: " + message)
}

func (s *deskSink) CaptureFailure(message string) {
	beep.Error()
	notify.ShowError("Microphone error: " + message)
}

func preview(text string) string {
	const limit = 80
	text = strings.TrimSpace(text)
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func run() int {
	serviceFlag := flag.String("service", "", "transcription service: openai or gemini (overrides TRANSCRIPTION_SERVICE)")
	langFlag := flag.String("lang", "", "language code, e.g. en, de (overrides LANGUAGE, empty keeps config)")
	autoPasteFlag := flag.Bool("autopaste", true, "paste the transcript into the focused window")
	notifyFlag := flag.Bool("notify", true, "show desktop notifications and play cues")
	logPathFlag := flag.String("logpath", "", "log directory (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *serviceFlag != "" {
		cfg.Service = config.Service(*serviceFlag)
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n",
			time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	primary, err := transcriber.New(cfg.Service, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	var fallback transcriber.Backend
	if cfg.FallbackService != "" && cfg.FallbackService != cfg.Service {
		fallback, err = transcriber.New(cfg.FallbackService, cfg)
		if err != nil {
			log.Warnf("fallback service unavailable: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: fallback service unavailable: %v\n", err)
			fallback = nil
		}
	}
	dispatcher := transcriber.NewDispatcher(primary, fallback, cfg.MaxRetries)

	log.SessionStart(primary.Name(), cfg.Language)

	if !*notifyFlag {
		notify.Disable()
		beep.Disable()
	}
	if *autoPasteFlag {
		if err := clipboard.Init(); err != nil {
			log.Warnf("paste init failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: paste init failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "On Linux: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
			*autoPasteFlag = false
		}
	}
	go beep.Init()

	audioCtx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		return 1
	}
	defer audioCtx.Close()

	sink := &deskSink{autoPaste: *autoPasteFlag}
	ctrl := session.NewController(session.Config{
		SampleRate:       cfg.SampleRate,
		Channels:         cfg.Channels,
		Language:         cfg.Language,
		MaxRecordingTime: cfg.MaxRecordingTime,
	}, audioCtx, dispatcher, sink)
	defer ctrl.Close()

	src := hotkey.NewSource()
	if err := src.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		return 1
	}
	defer src.Unregister()

	detector := hotkey.NewDoubleTap(cfg.DoublePressInterval)
	go detector.Run(src)

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)

	log.Infof("murmur %s ready: double-press the activation key to record", version)

	for {
		select {
		case <-detector.Activations():
			ctrl.Activate()
		case <-sigChan:
			log.Info("shutting down")
			return 0
		}
	}
}

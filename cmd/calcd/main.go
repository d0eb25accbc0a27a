/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command calcd serves the calc line protocol over TCP.
//
//	calcd -addr :8080 -workers 16 -log-level info
//	telnet localhost 8080
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"dirpx.dev/errslot/internal/calc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var flags struct {
		Addr     string
		Workers  int
		LogLevel string
	}
	flag.StringVar(&flags.Addr, "addr", ":8080", "listen address")
	flag.IntVar(&flags.Workers, "workers", 16, "maximum number of concurrent sessions")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	log, err := newLogger(flags.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", flags.Addr)
	if err != nil {
		log.Fatal("listen", zap.String("addr", flags.Addr), zap.Error(err))
	}
	if err := calc.NewServer(flags.Workers, log).Serve(ctx, ln); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
	log.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    lvl > zapcore.DebugLevel,
	}
	return cfg.Build()
}

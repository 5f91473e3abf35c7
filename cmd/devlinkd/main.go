// Package main is the entry point for the devlinkd tray daemon.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devlink-io/devlink/internal/config"
	"github.com/devlink-io/devlink/internal/daemon"
	"github.com/devlink-io/devlink/internal/models"
	"github.com/devlink-io/devlink/internal/tray"
)

func main() {
	foreground := flag.Bool("foreground", false, "Run in foreground (no system tray)")
	terminal := flag.String("terminal", defaultTerminal(), "Terminal emulator for the device list popup")
	flag.Parse()

	log.SetPrefix("[devlinkd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running (PID %d)", info.PID)
	}

	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(*terminal)
	} else {
		log.Println("Running in background mode (with system tray)")
		runWithTray(*terminal)
	}
}

func defaultTerminal() string {
	if term := os.Getenv("TERMINAL"); term != "" {
		return term
	}
	return "x-terminal-emulator"
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(terminal string) {
	d, err := daemon.New(terminal, nil, nil)
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	if err := d.Start(); err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid())); err != nil {
		log.Fatalf("Failed to write daemon info: %v", err)
	}

	log.Printf("Daemon started (PID %d)", os.Getpid())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	d.Stop()

	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}

	fmt.Println("Daemon stopped")
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(terminal string) {
	d, err := daemon.New(terminal, tray.UpdateDevices, tray.Quit)
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	onStart := func() {
		if err := d.Start(); err != nil {
			log.Printf("%v", err)
			tray.Quit()
			return
		}

		if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid())); err != nil {
			log.Fatalf("Failed to write daemon info: %v", err)
		}

		log.Printf("Daemon started (PID %d)", os.Getpid())

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		d.Stop()

		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}

		fmt.Println("Daemon stopped")
	}

	// This blocks the main goroutine until the tray exits.
	tray.Run(d, onStart, onExit)
}

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandRegistration(t *testing.T) {
	want := map[string]bool{
		"run":        false,
		"pipeline":   false,
		"validate":   false,
		"version":    false,
		"completion": false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	configFlag := rootCmd.PersistentFlags().Lookup("config")
	if configFlag == nil {
		t.Fatal("config flag not registered")
	}
	if configFlag.DefValue != "config.yaml" {
		t.Errorf("config flag default = %q, want %q", configFlag.DefValue, "config.yaml")
	}

	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("verbose flag not registered")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
	if Version == "" {
		t.Error("Version should have a default")
	}
}

func TestVersionCommand_ShortOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionShort = true
	defer func() { versionShort = false }()

	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(buf.String()); got != Version {
		t.Errorf("short output = %q, want %q", got, Version)
	}
}

func TestPipelineCommandFlags(t *testing.T) {
	if pipelineCmd.Flags().Lookup("dry-run") == nil {
		t.Error("dry-run flag not registered on pipeline command")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

type pathTagStruct struct {
	File string `validate:"file_exists"`
	Dir  string `validate:"dir_exists"`
}

type hostTagStruct struct {
	Host string `validate:"host"`
}

func TestFileExistsTag(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(file, []byte("app:\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := validate.Struct(pathTagStruct{File: file}); err != nil {
		t.Errorf("existing file rejected: %v", err)
	}
	if err := validate.Struct(pathTagStruct{File: ""}); err != nil {
		t.Errorf("empty path should be optional: %v", err)
	}
	if err := validate.Struct(pathTagStruct{File: filepath.Join(tmp, "missing.yaml")}); err == nil {
		t.Error("missing file accepted")
	}
	if err := validate.Struct(pathTagStruct{File: tmp}); err == nil {
		t.Error("directory accepted where a file is required")
	}
}

func TestDirExistsTag(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "f")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := validate.Struct(pathTagStruct{Dir: tmp}); err != nil {
		t.Errorf("existing directory rejected: %v", err)
	}
	if err := validate.Struct(pathTagStruct{Dir: ""}); err != nil {
		t.Errorf("empty path should be optional: %v", err)
	}
	if err := validate.Struct(pathTagStruct{Dir: file}); err == nil {
		t.Error("regular file accepted where a directory is required")
	}
}

func TestHostTag(t *testing.T) {
	valid := []string{"", "localhost", "node-1.cluster.local", "0.0.0.0", "::1", "db_primary"}
	for _, h := range valid {
		if err := validate.Struct(hostTagStruct{Host: h}); err != nil {
			t.Errorf("host %q rejected: %v", h, err)
		}
	}

	invalid := []string{"has space", "tab\there", "semi;colon", "slash/path"}
	for _, h := range invalid {
		if err := validate.Struct(hostTagStruct{Host: h}); err == nil {
			t.Errorf("host %q accepted", h)
		}
	}
}

func TestEnvTag(t *testing.T) {
	type envStruct struct {
		Env string `validate:"env"`
	}
	for _, e := range []string{"development", "staging", "production"} {
		if err := validate.Struct(envStruct{Env: e}); err != nil {
			t.Errorf("environment %q rejected: %v", e, err)
		}
	}
	if err := validate.Struct(envStruct{Env: "qa"}); err == nil {
		t.Error("unknown environment accepted")
	}
}

func TestValidateWithDetailsNamesFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = -1
	cfg.App.Environment = "nonsense"

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("invalid config passed validation")
	}
	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(details) == 0 {
		t.Fatal("no field details reported")
	}
	msg := details.Error()
	if msg == "" || msg == "no validation errors" {
		t.Errorf("unhelpful message: %q", msg)
	}
}

package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxedVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "string library", code: `x = string.upper("ghgrab") .. string.format("%d", 1)`},
		{name: "table library", code: `t = {1, 2}; table.insert(t, 3); x = table.concat(t, ",")`},
		{name: "math library", code: `x = math.floor(math.max(1.5, 2.5))`},
		{name: "basic functions", code: `x = type("a") .. tostring(1) .. tonumber("2"); for k, v in pairs({a = 1}) do end`},
		{name: "error and pcall", code: `ok = pcall(function() error("boom") end)`},

		{name: "os removed", code: `os.execute("true")`, wantErr: "attempt to index"},
		{name: "os.getenv removed", code: `x = os.getenv("HOME")`, wantErr: "attempt to index"},
		{name: "io removed", code: `io.open("/etc/passwd")`, wantErr: "attempt to index"},
		{name: "debug removed", code: `debug.getinfo(1)`, wantErr: "attempt to index"},
		{name: "package removed", code: `x = package.path`, wantErr: "attempt to index"},
		{name: "require removed", code: `require("socket")`, wantErr: "attempt to call"},
		{name: "dofile removed", code: `dofile("/tmp/x.lua")`, wantErr: "attempt to call"},
		{name: "loadfile removed", code: `loadfile("/tmp/x.lua")`, wantErr: "attempt to call"},
		{name: "load removed", code: `load("return 1")`, wantErr: "attempt to call"},
		{name: "loadstring removed", code: `loadstring("return 1")`, wantErr: "attempt to call"},
		{name: "print removed", code: `print("noise")`, wantErr: "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DoString(%q) error = %v", tt.code, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error containing %q", tt.code, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestSandboxedVMLibrariesAreTables(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"string", "table", "math"} {
		if got := L.GetGlobal(name).Type(); got != lua.LTTable {
			t.Errorf("%s = %v, want table", name, got)
		}
	}
	for _, name := range []string{"os", "io", "debug", "package", "require"} {
		if got := L.GetGlobal(name).Type(); got != lua.LTNil {
			t.Errorf("%s = %v, want nil", name, got)
		}
	}
}

func TestSandboxedVMStringMethods(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(`x = ("ghgrab"):upper()`); err != nil {
		t.Fatalf("string methods unavailable: %v", err)
	}
	if got := L.GetGlobal("x").String(); got != "GHGRAB" {
		t.Errorf("x = %q, want GHGRAB", got)
	}
}

package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func evalLua(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString(%q) error = %v", code, err)
	}
	v := L.Get(-1)
	L.Pop(1)
	return v
}

func TestInjectPlatformTable(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want map[string]lua.LValue
	}{
		{
			name: "linux",
			info: &Info{OS: "linux", Arch: "amd64", ArchRaw: "x86_64", Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"},
			want: map[string]lua.LValue{
				"platform.os":               lua.LString("linux"),
				"platform.arch":             lua.LString("amd64"),
				"platform.arch_raw":         lua.LString("x86_64"),
				"platform.tag":              lua.LString("linux"),
				"platform.binary":           lua.LString("ghgrab"),
				"platform.supported":        lua.LTrue,
				"platform.is_linux":         lua.LTrue,
				"platform.is_windows":       lua.LFalse,
				"platform.distro.id":        lua.LString("ubuntu"),
				"platform.distro.family":    lua.LString("debian"),
				"platform.is_apple_silicon": lua.LFalse,
			},
		},
		{
			name: "apple silicon",
			info: &Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"},
			want: map[string]lua.LValue{
				"platform.tag":              lua.LString("darwin-arm64"),
				"platform.is_macos":         lua.LTrue,
				"platform.is_arm64":         lua.LTrue,
				"platform.is_apple_silicon": lua.LTrue,
				"platform.distro":           lua.LNil,
			},
		},
		{
			name: "windows",
			info: &Info{OS: "windows", Arch: "amd64", ArchRaw: "amd64"},
			want: map[string]lua.LValue{
				"platform.tag":        lua.LString("win32"),
				"platform.binary":     lua.LString("ghgrab.exe"),
				"platform.is_windows": lua.LTrue,
			},
		},
		{
			name: "unsupported",
			info: &Info{OS: "freebsd", Arch: "amd64", ArchRaw: "amd64"},
			want: map[string]lua.LValue{
				"platform.tag":       lua.LString(""),
				"platform.supported": lua.LFalse,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()

			if err := InjectPlatformTable(L, tt.info); err != nil {
				t.Fatalf("InjectPlatformTable() error = %v", err)
			}

			for expr, want := range tt.want {
				got := evalLua(t, L, "return "+expr)
				if got.Type() != want.Type() || got.String() != want.String() {
					t.Errorf("%s = %v (%s), want %v (%s)", expr, got, got.Type(), want, want.Type())
				}
			}
		})
	}
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	for _, code := range []string{
		`platform.os = "windows"`,
		`platform.new_field = 1`,
		`setmetatable(platform, {})`,
	} {
		err := L.DoString(code)
		if err == nil {
			t.Errorf("%q should fail on a read-only table", code)
		}
	}

	if got := evalLua(t, L, "return platform.os"); got.String() != "linux" {
		t.Errorf("platform.os changed to %v", got)
	}
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "darwin", Arch: "arm64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	if got := evalLua(t, L, `return platform.when(platform.is_macos, "mac")`); got.String() != "mac" {
		t.Errorf("when(true) = %v, want mac", got)
	}
	if got := evalLua(t, L, `return platform.when(platform.is_linux, "linux")`); got != lua.LNil {
		t.Errorf("when(false) = %v, want nil", got)
	}

	err := L.DoString(`return platform.when("not a bool", 1)`)
	if err == nil || !strings.Contains(err.Error(), "boolean") {
		t.Errorf("when() with non-bool should raise a type error, got %v", err)
	}
}

package email

import "testing"

func TestValidAcceptsPlainAddresses(t *testing.T) {
	t.Parallel()

	for _, addr := range []string{
		"a@example.com",
		"A@Example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.io",
		"x@y.z",
	} {
		if !Valid(addr) {
			t.Errorf("expected %q to be valid", addr)
		}
	}
}

func TestValidRejectsMalformedAddresses(t *testing.T) {
	t.Parallel()

	for _, addr := range []string{
		"",
		"not-an-email",
		"missing-at.example.com",
		"no-dot-after-at@example",
		"two@@example.com",
		"a@b@c.com",
		"spaces in@example.com",
		"user@exa mple.com",
		"user@example.com ",
		" user@example.com",
		"user@.com.\t",
		"@example.com",
		"user@",
	} {
		if Valid(addr) {
			t.Errorf("expected %q to be invalid", addr)
		}
	}
}

func TestNormalizeTrimsAndLowercases(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  A@Example.COM ": "a@example.com",
		"a@example.com":    "a@example.com",
		"\tUSER@HOST.IO\n": "user@host.io",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizedVariantsCompareEqual(t *testing.T) {
	t.Parallel()

	if Normalize("A@Example.com") != Normalize("a@example.com") {
		t.Fatal("case variants must normalize to the same key")
	}
}

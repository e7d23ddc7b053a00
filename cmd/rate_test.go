package cmd

import (
	"errors"
	"strings"
	"testing"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

func TestRateCipherAcceptsEitherName(t *testing.T) {
	for _, name := range []string{"DES-CBC3-SHA", "TLS_RSA_WITH_3DES_EDE_CBC_SHA"} {
		t.Run(name, func(t *testing.T) {
			c, out := setupTestAppContext(t, nil)
			if err := rateCipherCmd.RunE(c, []string{name}); err != nil {
				t.Fatalf("rate cipher error = %v", err)
			}
			output := out.String()
			for _, want := range []string{
				"Cipher suite: TLS_RSA_WITH_3DES_EDE_CBC_SHA",
				"OpenSSL name: DES-CBC3-SHA",
				"Overall: legacy use/weak",
				"3DES_EDE_CBC",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestRateCipherUnknownVendorName(t *testing.T) {
	c, _ := setupTestAppContext(t, nil)
	err := rateCipherCmd.RunE(c, []string{"NOT-A-CIPHER"})
	if !errors.Is(err, sharedErrors.ErrCipherSuiteMappingNotFound) {
		t.Fatalf("expected ErrCipherSuiteMappingNotFound, got %v", err)
	}
}

func TestRateKey(t *testing.T) {
	c, out := setupTestAppContext(t, nil)
	if err := rateKeyCmd.RunE(c, []string{"rsa", "2048"}); err != nil {
		t.Fatalf("rate key error = %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "secure") || !strings.Contains(output, "not recommended") {
		t.Fatalf("unexpected output:\n%s", output)
	}

	var argErr *InvalidArgumentError
	if err := rateKeyCmd.RunE(c, []string{"RSA", "large"}); !errors.As(err, &argErr) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}

func TestRateParam(t *testing.T) {
	c, out := setupTestAppContext(t, nil)
	if err := rateParamCmd.RunE(c, []string{"protocol", "TLSv1.1"}); err != nil {
		t.Fatalf("rate param error = %v", err)
	}
	if !strings.Contains(out.String(), "legacy use/weak") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	var argErr *InvalidArgumentError
	for _, name := range []string{"PUBLIC_KEY_LENGTH", "COLOUR"} {
		if err := rateParamCmd.RunE(c, []string{name, "1"}); !errors.As(err, &argErr) {
			t.Fatalf("%s: expected InvalidArgumentError, got %v", name, err)
		}
	}
}

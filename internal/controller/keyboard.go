package controller

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Keyboard drives the typist device. Every action passes through the rate
// limiter before touching the device; typing additionally paces individual
// keystrokes with the configured key delay.
type Keyboard struct {
	typist   Typist
	limiter  *RateLimiter
	keyDelay time.Duration
	logger   zerolog.Logger

	// sleep is swapped in tests to avoid real waiting.
	sleep func(time.Duration)
}

// NewKeyboard creates a keyboard controller. A nil typist selects the
// simulated device; a nil limiter disables rate limiting.
func NewKeyboard(typist Typist, limiter *RateLimiter, keyDelay time.Duration, logger zerolog.Logger) *Keyboard {
	if typist == nil {
		typist = &SimulatedTypist{}
	}
	return &Keyboard{
		typist:   typist,
		limiter:  limiter,
		keyDelay: keyDelay,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// TypeText types the "text" parameter one rune at a time with key delay.
func (k *Keyboard) TypeText(ctx context.Context, params map[string]any) *Result {
	text := stringParam(params, "text", "")
	if text == "" {
		return fail("keyboard type_text requires a text parameter")
	}

	if res := k.throttle(ctx); res != nil {
		return res
	}

	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return failErr(err)
		}
		if err := k.typist.TypeRune(ctx, r); err != nil {
			return failErr(err)
		}
		if k.keyDelay > 0 {
			k.sleep(k.keyDelay)
		}
	}

	k.logger.Debug().Int("chars", len(text)).Msg("text typed")
	return ok("", map[string]any{"chars_typed": len(text)})
}

// PressKey presses the named non-character key from the "key" parameter.
func (k *Keyboard) PressKey(ctx context.Context, params map[string]any) *Result {
	key := stringParam(params, "key", "")
	if key == "" {
		return fail("keyboard press_key requires a key parameter")
	}

	if res := k.throttle(ctx); res != nil {
		return res
	}
	if err := k.typist.PressKey(ctx, key); err != nil {
		return failErr(err)
	}
	return ok("", map[string]any{"key": key})
}

// Hotkey presses the chorded combination from the "keys" parameter,
// accepted either as a list or a "+"-joined string ("ctrl+s").
func (k *Keyboard) Hotkey(ctx context.Context, params map[string]any) *Result {
	keys := keysParam(params)
	if len(keys) == 0 {
		return fail("keyboard hotkey requires a keys parameter")
	}

	if res := k.throttle(ctx); res != nil {
		return res
	}
	if err := k.typist.Hotkey(ctx, keys); err != nil {
		return failErr(err)
	}
	return ok("", map[string]any{"keys": strings.Join(keys, "+")})
}

// Wait pauses for the "duration" parameter (default 100ms). It still
// consumes a rate-limit slot, which keeps rapid-fire wait sequences from
// bypassing the throttle.
func (k *Keyboard) Wait(ctx context.Context, params map[string]any) *Result {
	if res := k.throttle(ctx); res != nil {
		return res
	}

	d := durationParam(params, "duration", 100*time.Millisecond)
	select {
	case <-ctx.Done():
		return failErr(ctx.Err())
	case <-time.After(d):
	}
	return ok("", map[string]any{"waited": d.String()})
}

// throttle blocks until the rate limiter grants a slot or the context ends.
// Returns a failed result only on context cancellation.
func (k *Keyboard) throttle(ctx context.Context) *Result {
	if k.limiter == nil {
		return nil
	}
	for {
		wait := k.limiter.Wait()
		if wait == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return failErr(ctx.Err())
		case <-time.After(wait):
		}
	}
}

// keysParam extracts the hotkey combination from the parameter map.
func keysParam(params map[string]any) []string {
	switch v := params["keys"].(type) {
	case []string:
		return v
	case []any:
		keys := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				keys = append(keys, s)
			}
		}
		return keys
	case string:
		if v == "" {
			return nil
		}
		return strings.Split(v, "+")
	default:
		return nil
	}
}

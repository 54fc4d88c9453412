// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose2(t *testing.T) {
	t.Run("success path", func(t *testing.T) {
		op1 := FuncAdapter[any, []string](func(ctx context.Context, raw any) ([]string, error) {
			return []string{"peppy", "cookiezi"}, nil
		})
		op2 := MapFunc(func(names []string) int {
			return len(names)
		})

		composed := Compose2(op1, op2)
		result, err := composed.Call(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result)
	})

	t.Run("first operation fails", func(t *testing.T) {
		wantErr := errors.New("op1 failed")
		op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
			return "", wantErr
		})
		op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
			t.Fatal("op2 should not be called")
			return 0, nil
		})

		composed := Compose2(op1, op2)
		_, err := composed.Call(context.Background(), 42)

		require.ErrorIs(t, err, wantErr)
	})

	t.Run("second operation fails", func(t *testing.T) {
		wantErr := errors.New("op2 failed")
		op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
			return "hello", nil
		})
		op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
			return 0, wantErr
		})

		composed := Compose2(op1, op2)
		_, err := composed.Call(context.Background(), 42)

		require.ErrorIs(t, err, wantErr)
	})
}

func TestCompose3(t *testing.T) {
	op1 := FuncAdapter[int, int](func(ctx context.Context, n int) (int, error) {
		return n + 1, nil
	})
	op2 := MapFunc(func(n int) int {
		return n * 2
	})
	op3 := FuncAdapter[int, int](func(ctx context.Context, n int) (int, error) {
		return n - 3, nil
	})

	composed := Compose3(op1, op2, op3)
	result, err := composed.Call(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 9, result)
}

// A materializer composed with a wrapper yields typed domain objects.
func TestComposeMaterializerWithWrapper(t *testing.T) {
	build := Compose2(NewObjectFunc(NewMaterializer(nil), UserSchema), MapFunc(func(inst *Instance) User {
		return User{inst}
	}))

	user, err := build.Call(context.Background(), map[string]any{"username": "peppy"})

	require.NoError(t, err)
	name, ok := user.Username()
	assert.True(t, ok)
	assert.Equal(t, "peppy", name)
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueRolesShared(t *testing.T) {
	roles := QueueRoles{{Role: QueueGraphics, Family: 1}, {Role: QueuePresent, Family: 1}}
	assert.True(t, roles.Shared())
	assert.Equal(t, []uint32{1}, roles.Families())
	assert.Equal(t, uint32(1), roles.Graphics())
	assert.Equal(t, uint32(1), roles.Present())
}

func TestQueueRolesSplit(t *testing.T) {
	roles := QueueRoles{{Role: QueueGraphics, Family: 0}, {Role: QueuePresent, Family: 2}}
	assert.False(t, roles.Shared())
	assert.Equal(t, []uint32{0, 2}, roles.Families())
	assert.Equal(t, uint32(2), roles.Present())

	_, ok := QueueRoles{{Role: QueueGraphics}}.Family(QueuePresent)
	assert.False(t, ok)
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(fmt.Errorf("acquire: %w", ErrOutOfDate)))
	assert.True(t, IsRecoverable(ErrSuboptimal))
	assert.False(t, IsRecoverable(ErrNoMemoryType))
	assert.False(t, IsRecoverable(errors.New("device lost")))
}

func TestExtent(t *testing.T) {
	assert.True(t, Extent2D{Width: 0, Height: 10}.IsZero())
	assert.False(t, Extent2D{Width: 1, Height: 1}.IsZero())
	assert.Equal(t, Viewport{Width: 1280, Height: 720, MaxDepth: 1}, ViewportFor(Extent2D{Width: 1280, Height: 720}))
}

package conflagrate

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func noopNode(ctx context.Context, deps Deps, args ...any) (any, error) {
	return nil, nil
}

func TestRegisterNodeTypeRequiresOutputType(t *testing.T) {
	t.Parallel()
	defer resetNodeTypeRegistry()

	err := RegisterNodeType("no-output", noopNode)
	require.ErrorIs(t, err, ErrMissingAnnotation)
}

func TestRegisterNodeTypeRejectsDuplicate(t *testing.T) {
	t.Parallel()
	defer resetNodeTypeRegistry()

	require.NoError(t, RegisterNodeType("dup", noopNode, WithOutputType(reflect.TypeOf(""))))
	err := RegisterNodeType("dup", noopNode, WithOutputType(reflect.TypeOf("")))
	require.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegisterNodeTypeMatcherRequiresMatchResult(t *testing.T) {
	t.Parallel()
	defer resetNodeTypeRegistry()

	err := RegisterNodeType("bad-matcher", noopNode,
		WithBranching(BranchMatcher),
		WithOutputType(reflect.TypeOf("")),
	)
	require.ErrorIs(t, err, ErrInvalidMatcherSignature)

	err = RegisterNodeType("good-matcher", noopNode,
		WithBranching(BranchMatcher),
		WithOutputType(reflect.TypeOf(MatchResult{})),
	)
	require.NoError(t, err)
}

func TestRegisterNodeTypeDefaults(t *testing.T) {
	t.Parallel()
	defer resetNodeTypeRegistry()

	require.NoError(t, RegisterNodeType("defaults", noopNode, WithOutputType(reflect.TypeOf(""))))
	nt := NodeTypes()["defaults"]
	require.Equal(t, BranchParallel, nt.Branching)
	require.Equal(t, Blocking, nt.Blocking)
}

func TestNodeTypesReturnsSnapshot(t *testing.T) {
	t.Parallel()
	defer resetNodeTypeRegistry()

	require.NoError(t, RegisterNodeType("snap", noopNode, WithOutputType(reflect.TypeOf(""))))
	snapshot := NodeTypes()
	resetNodeTypeRegistry()
	_, stillPresent := snapshot["snap"]
	require.True(t, stillPresent)
	_, presentAfterReset := NodeTypes()["snap"]
	require.False(t, presentAfterReset)
}

package invariant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

type fakeRefs map[store.Kind]map[uint]bool

func (f fakeRefs) Exists(_ context.Context, kind store.Kind, id uint) (bool, error) {
	return f[kind][id], nil
}

type brokenRefs struct{}

func (brokenRefs) Exists(context.Context, store.Kind, uint) (bool, error) {
	return false, apperrors.ErrSubstrateUnavailable
}

func TestChecker_CollectsAll(t *testing.T) {
	c := New()
	c.Length("title", "x", 2, 200)
	c.Range("price", 0, 1, 99999)
	c.Email("email", "not-an-email", false)
	c.Foreign(context.Background(), fakeRefs{}, "author_id", store.KindAuthor, 9)

	err := c.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	v := ViolationsOf(err)
	require.Len(t, v, 4)
	assert.Equal(t, RuleLength, v[0].Rule)
	assert.Equal(t, RuleRange, v[1].Rule)
	assert.Equal(t, RuleFormat, v[2].Rule)
	assert.Equal(t, RuleForeignKey, v[3].Rule)
	assert.Equal(t, "author_id", v[3].Field)
}

func TestChecker_Rules(t *testing.T) {
	t.Run("必填优先于长度", func(t *testing.T) {
		c := New()
		c.Length("name", "   ", 2, 100)
		require.Len(t, c.Violations(), 1)
		assert.Equal(t, RuleRequired, c.Violations()[0].Rule)
	})

	t.Run("长度按字符计算", func(t *testing.T) {
		c := New()
		c.Length("name", "三体", 2, 100)
		assert.Empty(t, c.Violations())
	})

	t.Run("可选字段为空不检查", func(t *testing.T) {
		c := New()
		c.MaxLength("description", "", 10)
		c.Email("email", "", true)
		c.URL("website", "", 500)
		assert.NoError(t, c.Err())
	})

	t.Run("URL必须是http(s)", func(t *testing.T) {
		c := New()
		c.URL("website", "ftp://example.com", 500)
		c.URL("image_url", "https://example.com/a.png", 500)
		require.Len(t, c.Violations(), 1)
		assert.Equal(t, "website", c.Violations()[0].Field)
	})

	t.Run("边界值", func(t *testing.T) {
		c := New()
		c.Range("price", 1, 1, 99999)
		c.Range("price", 99999, 1, 99999)
		c.Min("stock_quantity", 0, 0)
		assert.Empty(t, c.Violations())

		c.Range("price", 100000, 1, 99999)
		c.Min("stock_quantity", -1, 0)
		assert.Len(t, c.Violations(), 2)
	})

	t.Run("外键为0视为必填缺失", func(t *testing.T) {
		c := New()
		c.Foreign(context.Background(), fakeRefs{}, "bank_id", store.KindBank, 0)
		require.Len(t, c.Violations(), 1)
		assert.Equal(t, RuleRequired, c.Violations()[0].Rule)
	})

	t.Run("外键存在", func(t *testing.T) {
		refs := fakeRefs{store.KindBank: {1: true}}
		c := New()
		c.Foreign(context.Background(), refs, "bank_id", store.KindBank, 1)
		assert.NoError(t, c.Err())
	})
}

func TestChecker_StorageErrorWins(t *testing.T) {
	c := New()
	c.Length("title", "", 2, 200)
	c.Foreign(context.Background(), brokenRefs{}, "author_id", store.KindAuthor, 1)

	err := c.Err()
	assert.True(t, errors.Is(err, apperrors.ErrSubstrateUnavailable))
	assert.Nil(t, ViolationsOf(err))
}

func TestFailed_Empty(t *testing.T) {
	assert.NoError(t, Failed(nil))
}

package pg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

func TestSaveCategory(t *testing.T) {
	owner := mustCreateUser(t, domain.RoleUser)

	t.Run("save and fetch back", func(t *testing.T) {
		category := mustCreateCategory(t, owner.Id, "Books", nil)

		got, err := storage.CategoryById(owner.Id, category.Id)
		require.NoError(t, err)
		assert.Equal(t, "Books", got.Name)
		assert.Equal(t, owner.Id, got.OwnerId)
		assert.Nil(t, got.ParentId)
	})

	t.Run("with parent", func(t *testing.T) {
		parent := mustCreateCategory(t, owner.Id, "Electronics", nil)
		child := mustCreateCategory(t, owner.Id, "Laptops", &parent.Id)

		got, err := storage.CategoryById(owner.Id, child.Id)
		require.NoError(t, err)
		require.NotNil(t, got.ParentId)
		assert.Equal(t, parent.Id, *got.ParentId)
	})

	t.Run("duplicate name for same owner", func(t *testing.T) {
		mustCreateCategory(t, owner.Id, "Games", nil)

		_, err := storage.SaveCategory(domain.Category{Name: "Games", OwnerId: owner.Id})
		require.Error(t, err)
		assert.Equal(t, 400, internal_errors.StatusCode(err))
	})

	t.Run("same name for different owner is fine", func(t *testing.T) {
		other := mustCreateUser(t, domain.RoleUser)
		mustCreateCategory(t, owner.Id, "Shared Name", nil)
		mustCreateCategory(t, other.Id, "Shared Name", nil)
	})

	t.Run("parent owned by someone else", func(t *testing.T) {
		other := mustCreateUser(t, domain.RoleUser)
		foreign := mustCreateCategory(t, other.Id, "Foreign", nil)

		_, err := storage.SaveCategory(domain.Category{Name: "Orphan", OwnerId: owner.Id, ParentId: &foreign.Id})
		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))
	})
}

func TestCategoryOwnershipScope(t *testing.T) {
	owner := mustCreateUser(t, domain.RoleUser)
	other := mustCreateUser(t, domain.RoleUser)
	category := mustCreateCategory(t, owner.Id, "Private", nil)

	// someone else's category reads as missing
	_, err := storage.CategoryById(other.Id, category.Id)
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))

	list, err := storage.Categories(other.Id)
	require.NoError(t, err)
	for _, c := range list {
		assert.NotEqual(t, category.Id, c.Id)
	}
}

func TestCategoriesPage(t *testing.T) {
	owner := mustCreateUser(t, domain.RoleUser)
	parent := mustCreateCategory(t, owner.Id, "Parent", nil)
	a := mustCreateCategory(t, owner.Id, "A Child", &parent.Id)
	b := mustCreateCategory(t, owner.Id, "B Child", &parent.Id)
	mustCreateCategory(t, owner.Id, "Unrelated", nil)

	t.Run("filter by parent", func(t *testing.T) {
		children, err := storage.CategoriesPage(owner.Id, &parent.Id, 100, 0)
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, a.Id, children[0].Id)
		assert.Equal(t, b.Id, children[1].Id)
	})

	t.Run("limit and offset", func(t *testing.T) {
		page, err := storage.CategoriesPage(owner.Id, &parent.Id, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, b.Id, page[0].Id)
	})

	t.Run("children helper matches parent filter", func(t *testing.T) {
		children, err := storage.CategoryChildren(owner.Id, parent.Id)
		require.NoError(t, err)
		assert.Len(t, children, 2)
	})
}

func TestUpdateCategory(t *testing.T) {
	owner := mustCreateUser(t, domain.RoleUser)

	t.Run("rename and reparent", func(t *testing.T) {
		parent := mustCreateCategory(t, owner.Id, "New Parent", nil)
		category := mustCreateCategory(t, owner.Id, "Old Name", nil)

		err := storage.UpdateCategory(domain.Category{Id: category.Id, Name: "New Name", OwnerId: owner.Id, ParentId: &parent.Id})
		require.NoError(t, err)

		got, err := storage.CategoryById(owner.Id, category.Id)
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
		require.NotNil(t, got.ParentId)
		assert.Equal(t, parent.Id, *got.ParentId)
	})

	t.Run("self parent rejected", func(t *testing.T) {
		category := mustCreateCategory(t, owner.Id, "Selfish", nil)

		err := storage.UpdateCategory(domain.Category{Id: category.Id, Name: "Selfish", OwnerId: owner.Id, ParentId: &category.Id})
		require.Error(t, err)
		assert.Equal(t, 400, internal_errors.StatusCode(err))
	})

	t.Run("not owned", func(t *testing.T) {
		other := mustCreateUser(t, domain.RoleUser)
		category := mustCreateCategory(t, owner.Id, "Locked", nil)

		err := storage.UpdateCategory(domain.Category{Id: category.Id, Name: "Hacked", OwnerId: other.Id})
		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))

		got, err := storage.CategoryById(owner.Id, category.Id)
		require.NoError(t, err)
		assert.Equal(t, "Locked", got.Name)
	})
}

func TestDeleteCategory(t *testing.T) {
	owner := mustCreateUser(t, domain.RoleUser)

	t.Run("delete cascades to children", func(t *testing.T) {
		parent := mustCreateCategory(t, owner.Id, "Doomed", nil)
		child := mustCreateCategory(t, owner.Id, "Doomed Child", &parent.Id)

		require.NoError(t, storage.DeleteCategory(owner.Id, parent.Id))

		_, err := storage.CategoryById(owner.Id, parent.Id)
		assert.True(t, internal_errors.IsNotFound(err))
		_, err = storage.CategoryById(owner.Id, child.Id)
		assert.True(t, internal_errors.IsNotFound(err))
	})

	t.Run("not owned", func(t *testing.T) {
		other := mustCreateUser(t, domain.RoleUser)
		category := mustCreateCategory(t, owner.Id, "Safe", nil)

		err := storage.DeleteCategory(other.Id, category.Id)
		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))

		_, err = storage.CategoryById(owner.Id, category.Id)
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := storage.DeleteCategory(owner.Id, uuid.New())
		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))
	})
}

package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tonmarket/internal/domain"
)

func TestSelectOpensDetail(t *testing.T) {
	s := NewShell()

	s.Select(domain.SelectedItem{Code: "plush_pepe", Price: 30})

	assert.Equal(t, ViewDetail, s.View())
	assert.NotNil(t, s.Selected())
	assert.Equal(t, "plush_pepe", s.Selected().Code)
}

func TestBackFromDetailClearsSelection(t *testing.T) {
	s := NewShell()
	s.Select(domain.SelectedItem{Code: "plush_pepe"})

	s.Back()

	assert.Equal(t, ViewMarket, s.View())
	assert.Nil(t, s.Selected())
}

func TestBackFromListingReturnsToDetail(t *testing.T) {
	s := NewShell()
	s.Select(domain.SelectedItem{Code: "plush_pepe", OwnerID: 1})
	s.OpenCreateListing()
	assert.Equal(t, ViewCreateListing, s.View())

	s.Back()

	assert.Equal(t, ViewDetail, s.View())
	assert.NotNil(t, s.Selected())
}

func TestOpenCreateListingRequiresSelection(t *testing.T) {
	s := NewShell()

	s.OpenCreateListing()

	assert.Equal(t, ViewMarket, s.View())
}

func TestTabSwitchDropsSelection(t *testing.T) {
	s := NewShell()
	s.Select(domain.SelectedItem{Code: "plush_pepe"})

	s.Go(ViewProfile)

	assert.Equal(t, ViewProfile, s.View())
	assert.Nil(t, s.Selected())
}

func TestSheetsAreIndependentOfView(t *testing.T) {
	s := NewShell()
	s.OpenSheet(SheetWallet)
	s.OpenSheet(SheetDeposit)

	s.Go(ViewSeason)

	assert.True(t, s.SheetOpen(SheetWallet))
	assert.True(t, s.SheetOpen(SheetDeposit))
	assert.Equal(t, ViewSeason, s.View())

	s.CloseSheet(SheetWallet)
	assert.False(t, s.SheetOpen(SheetWallet))
	assert.True(t, s.SheetOpen(SheetDeposit))
}

func TestBackFromTopLevelIsNoop(t *testing.T) {
	s := NewShell()
	s.Go(ViewOwned)

	s.Back()

	assert.Equal(t, ViewOwned, s.View())
}

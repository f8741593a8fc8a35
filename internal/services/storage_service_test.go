// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gameshare/backend/internal/config"
)

type StorageTestSuite struct {
	suite.Suite
	storage *StorageService
	cfg     *config.Config
}

func (suite *StorageTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		Storage: config.StorageConfig{
			UploadDir:    suite.T().TempDir(),
			MaxImageSize: 1024,
			MaxFileSize:  4096,
			BaseURL:      "http://localhost:4000",
		},
	}

	storage, err := NewStorageService(suite.cfg)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), storage.EnsureDirs())

	suite.storage = storage
}

func (suite *StorageTestSuite) upload(name, contentType string, content []byte) Upload {
	return Upload{
		OriginalName: name,
		ContentType:  contentType,
		Size:         int64(len(content)),
		Reader:       bytes.NewReader(content),
	}
}

func (suite *StorageTestSuite) dirEntries(dir string) []os.DirEntry {
	entries, err := os.ReadDir(filepath.Join(suite.cfg.Storage.UploadDir, dir))
	require.NoError(suite.T(), err)
	return entries
}

func (suite *StorageTestSuite) TestStoreImage() {
	content := []byte("fake png bytes")
	asset, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", int64(len(content)), bytes.NewReader(content))

	require.NoError(suite.T(), err)
	assert.True(suite.T(), strings.HasPrefix(asset.URL, "http://localhost:4000/uploads/images/image-"))
	assert.True(suite.T(), strings.HasSuffix(asset.Name, ".png"))
	assert.Equal(suite.T(), int64(len(content)), asset.Size)

	written, err := os.ReadFile(filepath.Join(suite.cfg.Storage.UploadDir, "images", asset.Name))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), content, written)
}

func (suite *StorageTestSuite) TestStoreGameFile() {
	content := []byte("fake archive bytes")
	asset, err := suite.storage.Store(AssetKindGameFile, "pong.zip", "application/zip", int64(len(content)), bytes.NewReader(content))

	require.NoError(suite.T(), err)
	assert.True(suite.T(), strings.HasPrefix(asset.URL, "http://localhost:4000/uploads/games/game-"))
	assert.True(suite.T(), strings.HasSuffix(asset.Name, ".zip"))
}

func (suite *StorageTestSuite) TestInvalidImageExtension() {
	_, err := suite.storage.Store(AssetKindImage, "cover.bmp", "image/bmp", 10, bytes.NewReader([]byte("0123456789")))

	assert.ErrorIs(suite.T(), err, ErrInvalidAssetType)
	assert.Empty(suite.T(), suite.dirEntries("images"))
}

func (suite *StorageTestSuite) TestImageContentTypeMismatch() {
	_, err := suite.storage.Store(AssetKindImage, "cover.png", "application/octet-stream", 10, bytes.NewReader([]byte("0123456789")))

	assert.ErrorIs(suite.T(), err, ErrInvalidAssetType)
}

func (suite *StorageTestSuite) TestDisguisedGameFileExtension() {
	_, err := suite.storage.Store(AssetKindGameFile, "game.exe.txt", "application/octet-stream", 10, bytes.NewReader([]byte("0123456789")))

	assert.ErrorIs(suite.T(), err, ErrInvalidAssetType)
	assert.Empty(suite.T(), suite.dirEntries("games"))
}

func (suite *StorageTestSuite) TestUnknownAssetKind() {
	_, err := suite.storage.Store(AssetKind("archive"), "pong.zip", "application/zip", 10, bytes.NewReader([]byte("0123456789")))

	assert.ErrorIs(suite.T(), err, ErrInvalidAssetType)
}

func (suite *StorageTestSuite) TestDeclaredSizeOverLimit() {
	_, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", suite.cfg.Storage.MaxImageSize+1, bytes.NewReader(nil))

	assert.ErrorIs(suite.T(), err, ErrAssetTooLarge)
	assert.Empty(suite.T(), suite.dirEntries("images"))
}

func (suite *StorageTestSuite) TestStreamLongerThanDeclaredSize() {
	// Declared size lies; the bounded copy must catch it and remove the
	// partial file.
	oversized := bytes.Repeat([]byte("a"), int(suite.cfg.Storage.MaxImageSize)+10)
	_, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", 100, bytes.NewReader(oversized))

	assert.ErrorIs(suite.T(), err, ErrAssetTooLarge)
	assert.Empty(suite.T(), suite.dirEntries("images"))
}

func (suite *StorageTestSuite) TestGeneratedNamesAreUnique() {
	first, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", 4, bytes.NewReader([]byte("aaaa")))
	require.NoError(suite.T(), err)

	second, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", 4, bytes.NewReader([]byte("bbbb")))
	require.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), first.Name, second.Name)
}

func (suite *StorageTestSuite) TestDeleteIsIdempotent() {
	asset, err := suite.storage.Store(AssetKindImage, "cover.png", "image/png", 4, bytes.NewReader([]byte("aaaa")))
	require.NoError(suite.T(), err)

	assert.True(suite.T(), suite.storage.Delete(asset.URL))
	assert.False(suite.T(), suite.storage.Delete(asset.URL))
	assert.False(suite.T(), suite.storage.Delete("http://localhost:4000/uploads/images/image-never-existed.png"))
	assert.False(suite.T(), suite.storage.Delete("not-a-reference"))
}

func (suite *StorageTestSuite) TestStoreGamePair() {
	pair, err := suite.storage.StoreGamePair(
		suite.upload("cover.png", "image/png", []byte("img")),
		suite.upload("pong.zip", "application/zip", []byte("zip")),
	)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.dirEntries("images"), 1)
	assert.Len(suite.T(), suite.dirEntries("games"), 1)
	assert.Contains(suite.T(), pair.Image.URL, "/uploads/images/")
	assert.Contains(suite.T(), pair.File.URL, "/uploads/games/")
}

func (suite *StorageTestSuite) TestStoreGamePairCleansUpOnFailure() {
	// Second store fails on extension; the already written image must not
	// survive as an orphan.
	_, err := suite.storage.StoreGamePair(
		suite.upload("cover.png", "image/png", []byte("img")),
		suite.upload("game.exe.txt", "application/octet-stream", []byte("zip")),
	)

	assert.ErrorIs(suite.T(), err, ErrInvalidAssetType)
	assert.Empty(suite.T(), suite.dirEntries("images"))
	assert.Empty(suite.T(), suite.dirEntries("games"))
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

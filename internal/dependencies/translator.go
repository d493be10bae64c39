package dependencies

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/archivekit/packforge/internal/perr"
)

// PackTranslation is the on-disk JSON shape rpfm_extensions' translator
// module persists: one file per (pack, language) pair recording every
// translated Loc key it has resolved, following
// rpfm_extensions/src/translator/mod.rs.
type PackTranslation struct {
	Language     string            `json:"language"`
	PackName     string            `json:"pack_name"`
	Translations map[string]string `json:"translations"`
}

// Translator loads and saves PackTranslation files for a single pack,
// mirroring the teacher's own JSON manifest persistence in
// internal/assets/manifest.go (os.ReadFile/json.Unmarshal,
// json.Marshal/os.WriteFile, fmt.Errorf wrapping throughout).
type Translator struct {
	PackName string
}

// NewTranslator returns a Translator scoped to the given pack name.
func NewTranslator(packName string) *Translator {
	return &Translator{PackName: packName}
}

// Load reads a PackTranslation from path.
func (t *Translator) Load(path string) (*PackTranslation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.TranslatorCouldNotLoadTranslation()
	}
	var pt PackTranslation
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil, perr.TranslatorCouldNotLoadTranslation()
	}
	return &pt, nil
}

// Save writes pt to path as JSON.
func (t *Translator) Save(path string, pt *PackTranslation) error {
	data, err := json.MarshalIndent(pt, "", "  ")
	if err != nil {
		return fmt.Errorf("dependencies: marshal translation: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("dependencies: write translation %s: %w", path, err)
	}
	return nil
}

// Merge folds new key -> translated_value pairs into pt, preferring
// existing entries over incoming ones so a re-run of a translation pass
// never clobbers a manually corrected string.
func (pt *PackTranslation) Merge(incoming map[string]string) {
	if pt.Translations == nil {
		pt.Translations = make(map[string]string, len(incoming))
	}
	for k, v := range incoming {
		if _, exists := pt.Translations[k]; !exists {
			pt.Translations[k] = v
		}
	}
}

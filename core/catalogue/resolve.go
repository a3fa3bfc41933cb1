package catalogue

import (
	verrors "github.com/adalundhe/volcans/core/errors"
)

// Resolve maps an identifier to its matrix index.
func (c *Catalogue) Resolve(id Identifier) (int, error) {
	if id.IsNumber() {
		return c.IndexOfNumber(id.NumberValue())
	}
	return c.IndexOfName(id.NameValue())
}

// IndexOfNumber maps a Smithsonian volcano number to its matrix index.
func (c *Catalogue) IndexOfNumber(vnum int) (int, error) {
	idx, ok := c.byNumber[vnum]
	if !ok {
		return 0, verrors.New(verrors.KindNotFound,
			"Volcano number does not exist. "+
				"Please provide a non-zero, positive, six digits number. To check for "+
				"existing volcano numbers (VNUM), please visit www.volcano.si.edu").
			WithContext("volcano_number", Number(vnum).String())
	}
	return idx, nil
}

// IndexOfName maps an exact, case-sensitive volcano name to its matrix index.
// Unknown and duplicated names fail with errors listing similar names.
func (c *Catalogue) IndexOfName(name string) (int, error) {
	matches := c.byName[name]

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		c.logger.Debug("volcano name not in catalogue", "name", name)
		return 0, verrors.Newf(verrors.KindNotFound,
			"%s not found! Did you mean:\n%s",
			name, FormatSuggestions(c.Suggest(name, c.suggestionLimit))).
			WithContext("name", name)
	default:
		return 0, verrors.Newf(verrors.KindAmbiguous,
			"Volcano name %s is not unique. Please provide smithsonian id instead of name.\n%s",
			name, FormatSuggestions(c.Suggest(name, c.suggestionLimit))).
			WithContext("name", name)
	}
}

// VolcanoNumberOf resolves an identifier and returns its volcano number.
func (c *Catalogue) VolcanoNumberOf(id Identifier) (int, error) {
	idx, err := c.Resolve(id)
	if err != nil {
		return 0, err
	}
	return c.entities[idx].VolcanoNumber, nil
}

// Lookup resolves an identifier and returns the whole catalogue row.
func (c *Catalogue) Lookup(id Identifier) (Entity, error) {
	idx, err := c.Resolve(id)
	if err != nil {
		return Entity{}, err
	}
	return c.entities[idx], nil
}

package relevance

import "ainews/internal/model"

// Dedupe removes exact (same URL) and near-duplicate articles, preserving
// input order; the first occurrence wins. Pairwise comparison against the
// accepted set is fine since article counts are capped per invocation.
func (s *Scorer) Dedupe(articles []*model.Article) []*model.Article {
	unique := make([]*model.Article, 0, len(articles))
	seenURLs := make(map[string]bool)

	for _, a := range articles {
		if seenURLs[a.URL] {
			continue
		}

		duplicate := false
		for _, kept := range unique {
			if s.IsDuplicate(a, kept) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		unique = append(unique, a)
		seenURLs[a.URL] = true
	}

	return unique
}

// Package skills extracts structured attribute profiles from resume and job
// description text and compares them.
//
// Extraction is dictionary based: technical skills and soft skills are
// matched as whole words or contiguous phrases against fixed vocabularies,
// certifications and degrees are matched with a fixed list of patterns, and
// years of experience are read from the first matching phrase. Everything is
// case-insensitive and runs offline.
//
//	profile := skills.Extract(resumeText)
//	cmp := skills.Compare(skills.Extract(jobText), profile)
//	fmt.Println(cmp.Score, cmp.MatchedSkills)
package skills

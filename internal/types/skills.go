package types

// Skill is one entry of the fixed team-role catalog. The catalog is static
// configuration, not mutable data: 36 skills in 4 groups, ids 1-36.
type Skill struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

const (
	SkillCategorySoftware = "software"
	SkillCategoryHardware = "hardware"
	SkillCategoryDesign   = "design"
	SkillCategoryProduct  = "product"
)

const MaxSkillsPerMember = 2

var SkillCatalog = []Skill{
	{1, "Frontend Development", SkillCategorySoftware},
	{2, "Backend Development", SkillCategorySoftware},
	{3, "Mobile Development", SkillCategorySoftware},
	{4, "Machine Learning", SkillCategorySoftware},
	{5, "Data Engineering", SkillCategorySoftware},
	{6, "DevOps", SkillCategorySoftware},
	{7, "Security", SkillCategorySoftware},
	{8, "Game Development", SkillCategorySoftware},
	{9, "Blockchain", SkillCategorySoftware},
	{10, "Embedded Systems", SkillCategoryHardware},
	{11, "PCB Design", SkillCategoryHardware},
	{12, "Robotics", SkillCategoryHardware},
	{13, "3D Printing", SkillCategoryHardware},
	{14, "Sensors & IoT", SkillCategoryHardware},
	{15, "FPGA", SkillCategoryHardware},
	{16, "Mechanical Design", SkillCategoryHardware},
	{17, "Electronics Prototyping", SkillCategoryHardware},
	{18, "Firmware", SkillCategoryHardware},
	{19, "UI Design", SkillCategoryDesign},
	{20, "UX Research", SkillCategoryDesign},
	{21, "Graphic Design", SkillCategoryDesign},
	{22, "Motion Design", SkillCategoryDesign},
	{23, "Illustration", SkillCategoryDesign},
	{24, "Industrial Design", SkillCategoryDesign},
	{25, "Branding", SkillCategoryDesign},
	{26, "3D Modeling", SkillCategoryDesign},
	{27, "Video Editing", SkillCategoryDesign},
	{28, "Product Management", SkillCategoryProduct},
	{29, "Business Strategy", SkillCategoryProduct},
	{30, "Marketing", SkillCategoryProduct},
	{31, "Pitching", SkillCategoryProduct},
	{32, "User Interviews", SkillCategoryProduct},
	{33, "Data Analysis", SkillCategoryProduct},
	{34, "Operations", SkillCategoryProduct},
	{35, "Fundraising", SkillCategoryProduct},
	{36, "Community Building", SkillCategoryProduct},
}

var skillsByID = initSkillsByID()

func initSkillsByID() map[int64]Skill {
	m := make(map[int64]Skill, len(SkillCatalog))
	for _, s := range SkillCatalog {
		m[s.ID] = s
	}
	return m
}

// SkillByID returns the catalog entry for id, or false for ids outside 1-36.
func SkillByID(id int64) (Skill, bool) {
	s, ok := skillsByID[id]
	return s, ok
}

// SkillNames resolves ids to display names, skipping unknown ids.
func SkillNames(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := skillsByID[id]; ok {
			names = append(names, s.Name)
		}
	}
	return names
}

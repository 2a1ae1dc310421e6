package service

import (
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/util"
	"testing"
)

func newSectionState() *SectionState {
	return &SectionState{
		Sections:          []model.Section{NewSectionService().DefaultSection()},
		DeletedSectionIDs: []string{},
	}
}

func TestAddSection(t *testing.T) {
	svc := NewSectionService()
	st := newSectionState()

	t.Run("titles follow current count", func(t *testing.T) {
		added := svc.AddSection(st)
		if added.Title != "Section 2" {
			t.Fatalf("expected Section 2, got %q", added.Title)
		}
		if !added.IsSectionNew {
			t.Fatal("added section must carry the new flag")
		}
	})

	t.Run("active tab moves to the new section", func(t *testing.T) {
		svc.AddSection(st)
		if st.CurrentSectionTab != len(st.Sections)-1 {
			t.Fatalf("expected tab %d, got %d", len(st.Sections)-1, st.CurrentSectionTab)
		}
	})

	t.Run("duplicate titles are possible after deletions", func(t *testing.T) {
		// 删掉中间的分区再新增：标题按当前数量+1 生成，允许重名
		st := newSectionState()
		svc.AddSection(st) // Section 2
		svc.AddSection(st) // Section 3
		if err := svc.DeleteSection(st, st.Sections[1].ID); err != nil {
			t.Fatal(err)
		}
		added := svc.AddSection(st)
		if added.Title != "Section 3" {
			t.Fatalf("expected Section 3 after deletion, got %q", added.Title)
		}
	})
}

func TestDeleteSection(t *testing.T) {
	svc := NewSectionService()

	t.Run("records deleted id", func(t *testing.T) {
		st := newSectionState()
		id := st.Sections[0].ID
		if err := svc.DeleteSection(st, id); err != nil {
			t.Fatal(err)
		}
		if len(st.DeletedSectionIDs) != 1 || st.DeletedSectionIDs[0] != id {
			t.Fatalf("deleted id not recorded: %v", st.DeletedSectionIDs)
		}
	})

	t.Run("deleting the last section leaves an empty list", func(t *testing.T) {
		st := newSectionState()
		if err := svc.DeleteSection(st, st.Sections[0].ID); err != nil {
			t.Fatal(err)
		}
		if len(st.Sections) != 0 {
			t.Fatalf("expected no sections, got %d", len(st.Sections))
		}
		if st.CurrentSectionTab != 0 {
			t.Fatalf("tab must clamp to 0, got %d", st.CurrentSectionTab)
		}
	})

	t.Run("active tab clamps when out of range", func(t *testing.T) {
		st := newSectionState()
		svc.AddSection(st)
		svc.AddSection(st) // tab = 2
		if err := svc.DeleteSection(st, st.Sections[2].ID); err != nil {
			t.Fatal(err)
		}
		if st.CurrentSectionTab != 1 {
			t.Fatalf("expected tab 1, got %d", st.CurrentSectionTab)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		st := newSectionState()
		if err := svc.DeleteSection(st, "0000"); err != util.ErrSectionNotFound {
			t.Fatalf("expected ErrSectionNotFound, got %v", err)
		}
	})
}

func TestSectionTitleEditing(t *testing.T) {
	svc := NewSectionService()

	t.Run("saving stamps the edited flag", func(t *testing.T) {
		st := newSectionState()
		id := st.Sections[0].ID
		if err := svc.StartEditingTitle(st, id); err != nil {
			t.Fatal(err)
		}
		if st.EditedTitle != "Section 1" {
			t.Fatalf("draft must start from the current title, got %q", st.EditedTitle)
		}
		svc.ChangeTitleDraft(st, "Reading Comprehension")
		saved, err := svc.SaveTitle(st, id)
		if err != nil || !saved {
			t.Fatalf("expected save to succeed, saved=%v err=%v", saved, err)
		}
		if st.Sections[0].Title != "Reading Comprehension" {
			t.Fatalf("title not applied: %q", st.Sections[0].Title)
		}
		if !st.Sections[0].IsSectionEdited {
			t.Fatal("edited flag must be set after a title change")
		}
		if st.IsEditingTitle {
			t.Fatal("editing mode must close after save")
		}
	})

	t.Run("blank title is silently discarded", func(t *testing.T) {
		st := newSectionState()
		id := st.Sections[0].ID
		if err := svc.StartEditingTitle(st, id); err != nil {
			t.Fatal(err)
		}
		svc.ChangeTitleDraft(st, "   ")
		saved, err := svc.SaveTitle(st, id)
		if err != nil {
			t.Fatal(err)
		}
		if saved {
			t.Fatal("blank title must not be saved")
		}
		if st.Sections[0].Title != "Section 1" {
			t.Fatalf("title must be unchanged, got %q", st.Sections[0].Title)
		}
		if st.Sections[0].IsSectionEdited {
			t.Fatal("discarded save must not stamp the edited flag")
		}
	})

	t.Run("cancel restores the draft", func(t *testing.T) {
		st := newSectionState()
		id := st.Sections[0].ID
		if err := svc.StartEditingTitle(st, id); err != nil {
			t.Fatal(err)
		}
		svc.ChangeTitleDraft(st, "half-typed")
		if err := svc.CancelEditTitle(st, id); err != nil {
			t.Fatal(err)
		}
		if st.IsEditingTitle || st.EditedTitle != "Section 1" {
			t.Fatalf("cancel must revert the draft, editing=%v draft=%q", st.IsEditingTitle, st.EditedTitle)
		}
	})
}

func TestToggleSectionExpand(t *testing.T) {
	svc := NewSectionService()
	st := newSectionState()
	id := st.Sections[0].ID

	if err := svc.ToggleSectionExpand(st, id); err != nil {
		t.Fatal(err)
	}
	if st.Sections[0].IsExpanded {
		t.Fatal("expected collapsed after toggle")
	}
	// 展示状态切换不算编辑
	if st.Sections[0].IsSectionEdited {
		t.Fatal("toggle must not stamp the edited flag")
	}
}

func TestSetActiveTab(t *testing.T) {
	svc := NewSectionService()
	st := newSectionState()
	svc.AddSection(st)

	if err := svc.SetActiveTab(st, 0); err != nil {
		t.Fatal(err)
	}
	if st.CurrentSectionTab != 0 {
		t.Fatalf("expected tab 0, got %d", st.CurrentSectionTab)
	}
	if err := svc.SetActiveTab(st, 5); err == nil {
		t.Fatal("out of range index must be rejected")
	}
}

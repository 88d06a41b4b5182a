package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/user"

	"github.com/google/uuid"
)

func testAdmin() user.User {
	return user.User{ID: uuid.New(), Name: "Root", Email: "root@example.com", Role: user.RoleAdmin, IsVerified: true}
}

func TestAdmins_DeleteUser_SelfForbidden(t *testing.T) {
	adm := testAdmin()
	uc := NewAdminUsecase(newFakeUserRepo(adm), newFakeJobRepo(), &fakeAdminRepo{}, &fakeMailer{}, "https://app.example.com")

	err := uc.DeleteUser(context.Background(), adm, adm.ID)
	if !errors.Is(err, ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
}

func TestAdmins_DeleteUser_UnknownTarget(t *testing.T) {
	adm := testAdmin()
	uc := NewAdminUsecase(newFakeUserRepo(adm), newFakeJobRepo(), &fakeAdminRepo{}, &fakeMailer{}, "")

	err := uc.DeleteUser(context.Background(), adm, uuid.New())
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestAdmins_DeleteUser_LogsBeforeActing(t *testing.T) {
	adm := testAdmin()
	target := testStudent()
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm, target), newFakeJobRepo(), admins, &fakeMailer{}, "")

	if err := uc.DeleteUser(context.Background(), adm, target.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(admins.events) != 2 {
		t.Fatalf("expected log then delete, got %v", admins.events)
	}
	if admins.events[0] != "log:"+admin.ActionDeleteUser {
		t.Fatalf("expected the audit entry first, got %v", admins.events)
	}
	if !strings.HasPrefix(admins.events[1], "delete-user:") {
		t.Fatalf("expected the delete second, got %v", admins.events)
	}
}

func TestAdmins_ChangeUserRole_InvalidRole(t *testing.T) {
	adm := testAdmin()
	target := testStudent()
	uc := NewAdminUsecase(newFakeUserRepo(adm, target), newFakeJobRepo(), &fakeAdminRepo{}, &fakeMailer{}, "")

	_, err := uc.ChangeUserRole(context.Background(), adm, target.ID, "super_admin")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAdmins_ChangeUserRole_SameRoleIsNoop(t *testing.T) {
	adm := testAdmin()
	target := testStudent()
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm, target), newFakeJobRepo(), admins, &fakeMailer{}, "")

	usr, err := uc.ChangeUserRole(context.Background(), adm, target.ID, "student")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Role != user.RoleStudent {
		t.Fatalf("unexpected role %s", usr.Role)
	}
	if len(admins.events) != 0 {
		t.Fatalf("no-op change must not be audited or applied, got %v", admins.events)
	}
}

func TestAdmins_ChangeUserRole_AuditedAndApplied(t *testing.T) {
	adm := testAdmin()
	target := testStudent()
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm, target), newFakeJobRepo(), admins, &fakeMailer{}, "")

	usr, err := uc.ChangeUserRole(context.Background(), adm, target.ID, "recruiter")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Role != user.RoleRecruiter {
		t.Fatalf("expected recruiter, got %s", usr.Role)
	}
	if len(admins.events) != 2 || admins.events[0] != "log:"+admin.ActionChangeRole {
		t.Fatalf("expected audit then change, got %v", admins.events)
	}
}

func TestAdmins_SendInvite_EmailFailureIsWarning(t *testing.T) {
	adm := testAdmin()
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm), newFakeJobRepo(), admins, &fakeMailer{sendErr: errors.New("smtp down")}, "")

	result, err := uc.SendInvite(context.Background(), adm, "newadmin@example.com")
	if err != nil {
		t.Fatalf("invite creation must not fail on email delivery: %v", err)
	}
	if result.Warning == "" {
		t.Fatalf("expected a warning on email failure")
	}
	if len(admins.invites) != 1 {
		t.Fatalf("expected the invite to be stored, got %d", len(admins.invites))
	}
}

func TestAdmins_AcceptInvite_SingleUse(t *testing.T) {
	adm := testAdmin()
	invitee := user.User{ID: uuid.New(), Name: "Nia", Email: "nia@example.com", Role: user.RoleStudent, IsVerified: true}
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm, invitee), newFakeJobRepo(), admins, &fakeMailer{}, "")

	result, err := uc.SendInvite(context.Background(), adm, invitee.Email)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := uc.AcceptInvite(context.Background(), invitee, result.Invite.Token); err != nil {
		t.Fatalf("first accept must succeed: %v", err)
	}
	if err := uc.AcceptInvite(context.Background(), invitee, result.Invite.Token); !errors.Is(err, admin.ErrInviteInvalid) {
		t.Fatalf("second accept must fail, got %v", err)
	}
}

func TestAdmins_AcceptInvite_WrongEmail(t *testing.T) {
	adm := testAdmin()
	invitee := user.User{ID: uuid.New(), Email: "nia@example.com", Role: user.RoleStudent, IsVerified: true}
	stranger := user.User{ID: uuid.New(), Email: "other@example.com", Role: user.RoleStudent, IsVerified: true}
	admins := &fakeAdminRepo{}
	uc := NewAdminUsecase(newFakeUserRepo(adm, invitee, stranger), newFakeJobRepo(), admins, &fakeMailer{}, "")

	result, err := uc.SendInvite(context.Background(), adm, invitee.Email)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := uc.AcceptInvite(context.Background(), stranger, result.Invite.Token); !errors.Is(err, admin.ErrInviteInvalid) {
		t.Fatalf("invite must be bound to the invited email, got %v", err)
	}
}

func TestAdmins_Logs_Pagination(t *testing.T) {
	admins := &fakeAdminRepo{}
	for range [45]struct{}{} {
		_ = admins.AppendLog(context.Background(), admin.LogEntry{ID: uuid.New(), ActorID: uuid.New(), Action: admin.ActionDeleteJob, CreatedAt: time.Now()})
	}
	uc := NewAdminUsecase(newFakeUserRepo(), newFakeJobRepo(), admins, &fakeMailer{}, "")

	page, err := uc.Logs(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 45 {
		t.Fatalf("expected total 45, got %d", page.Total)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}
}
